package app

import (
	"context"

	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
)

// disabled is the cache of builds that run without one.
var disabled ports.BuildCache = noCache{}

type noCache struct{}

func (noCache) Load(context.Context, hashing.Key, any) bool { return false }

func (noCache) LoadArtifacts(context.Context, hashing.Key, any, string) bool { return false }

func (noCache) Save(context.Context, hashing.Key, any) bool { return false }

func (noCache) SaveArtifacts(context.Context, hashing.Key, any, string, []string) bool { return false }
