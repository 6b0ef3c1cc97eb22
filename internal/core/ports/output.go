package ports

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
)

// ResourceWriter serializes compiled write commands into resource files.
//
//go:generate mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type ResourceWriter interface {
	// Write serializes cmd into outDir. deps holds the commands of every bundle cmd
	// transitively depends on.
	Write(
		ctx context.Context,
		cmd *domain.WriteCommand,
		deps []*domain.WriteCommand,
		platform domain.Platform,
		outDir string,
	) ([]domain.ResourceFile, error)
}

// Archiver packs the resource files of a bundle into its final archive.
type Archiver interface {
	// Archive writes the archive to outPath atomically and returns its CRC32 checksum.
	Archive(
		ctx context.Context,
		files []domain.ResourceFile,
		compression domain.Compression,
		outPath string,
	) (uint32, error)
}
