package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/adapters/archive"            //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/assetdb"            //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/adapters/writer"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			assetdb.NodeID,
			cas.NodeID,
			writer.NodeID,
			archive.NodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	databases, err := graft.Dep[ports.AssetDatabaseOpener](ctx)
	if err != nil {
		return nil, err
	}

	caches, err := graft.Dep[ports.CacheProvider](ctx)
	if err != nil {
		return nil, err
	}

	resourceWriter, err := graft.Dep[ports.ResourceWriter](ctx)
	if err != nil {
		return nil, err
	}

	archiver, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, databases, caches, resourceWriter, archiver, tracer, recorder, log), nil
}
