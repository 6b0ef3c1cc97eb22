// Package archive packs resource files into deterministic tar archives, optionally
// compressed with zstd.
package archive

import (
	"archive/tar"
	"context"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Archiver = (*Archiver)(nil)

// epoch is the modification time of every archive entry.
var epoch = time.Unix(0, 0).UTC()

// Archiver writes bundle archives.
type Archiver struct{}

// New creates an Archiver.
func New() *Archiver {
	return &Archiver{}
}

// Archive writes files, in order, into the archive at outPath and returns the CRC32 of
// the archive bytes. The archive appears atomically: a failed call leaves no file behind.
func (a *Archiver) Archive(
	ctx context.Context,
	files []domain.ResourceFile,
	compression domain.Compression,
	outPath string,
) (uint32, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", outPath)
	}
	tmp, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+".*")
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create archive"), "path", outPath)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	crc := crc32.NewIEEE()
	sink := io.MultiWriter(tmp, crc)

	var zw *zstd.Encoder
	var w io.Writer = sink
	switch compression {
	case domain.CompressionNone, "":
	case domain.CompressionZstd:
		zw, err = zstd.NewWriter(sink, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return 0, zerr.Wrap(err, "failed to create zstd encoder")
		}
		w = zw
	default:
		return 0, zerr.With(domain.ErrUnknownCompression, "compression", string(compression))
	}

	tw := tar.NewWriter(w)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := addFile(tw, f); err != nil {
			return 0, err
		}
	}
	if err := tw.Close(); err != nil {
		return 0, zerr.Wrap(err, "failed to finish archive")
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return 0, zerr.Wrap(err, "failed to finish compression")
		}
	}
	if err := tmp.Close(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to close archive"), "path", outPath)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to set archive permissions"), "path", outPath)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to move archive into place"), "path", outPath)
	}
	committed = true
	return crc.Sum32(), nil
}

func addFile(tw *tar.Writer, f domain.ResourceFile) error {
	src, err := os.Open(f.FileName)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open resource file"), "path", f.FileName)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat resource file"), "path", f.FileName)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     filepath.Base(f.FileName),
		Size:     info.Size(),
		Mode:     int64(domain.FilePerm),
		ModTime:  epoch,
		Format:   tar.FormatPAX,
	}
	if !f.Serialized {
		hdr.PAXRecords = map[string]string{"BALE.resource": "raw"}
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive entry"), "path", f.FileName)
	}
	if _, err := io.Copy(tw, src); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive entry"), "path", f.FileName)
	}
	return nil
}

// Entry is one file of an archive.
type Entry struct {
	Name       string
	Serialized bool
	Data       []byte
}

// Read returns the entries of the archive at path.
func Read(path string, compression domain.Compression) ([]Entry, error) {
	f, err := os.Open(path) //nolint:gosec // caller controlled
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open archive"), "path", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if compression == domain.CompressionZstd {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create zstd decoder")
		}
		defer zr.Close()
		r = zr
	}

	var entries []Entry
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read archive"), "path", path)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read archive entry"), "entry", hdr.Name)
		}
		entries = append(entries, Entry{
			Name:       hdr.Name,
			Serialized: hdr.PAXRecords["BALE.resource"] != "raw",
			Data:       data,
		})
	}
}
