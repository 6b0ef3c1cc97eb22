package cas

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
)

var _ ports.CacheProvider = (*Provider)(nil)

// Provider opens Stores from project cache settings.
type Provider struct {
	logger ports.Logger
}

// NewProvider creates a Provider whose stores warn through logger.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// Open implements ports.CacheProvider.
func (p *Provider) Open(_ context.Context, settings domain.CacheSettings) (ports.CacheStore, error) {
	opts := []Option{WithMemoryEntries(settings.MemoryEntries), WithLogger(p.logger)}
	if settings.Remote.Enabled() {
		remote, err := NewMinioRemote(settings.Remote)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithRemote(remote))
	}
	return NewStore(settings.Dir, opts...)
}
