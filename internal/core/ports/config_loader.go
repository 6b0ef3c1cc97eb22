package ports

import "go.trai.ch/bale/internal/core/domain"

// ConfigLoader loads the project manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest found at path, or searched upwards from the working
	// directory when path is empty.
	Load(path string) (*domain.Project, error)
}
