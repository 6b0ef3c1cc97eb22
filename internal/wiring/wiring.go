// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bale/internal/adapters/archive"
	_ "go.trai.ch/bale/internal/adapters/assetdb"
	_ "go.trai.ch/bale/internal/adapters/cas"
	_ "go.trai.ch/bale/internal/adapters/config"
	_ "go.trai.ch/bale/internal/adapters/fs"
	_ "go.trai.ch/bale/internal/adapters/logger"
	_ "go.trai.ch/bale/internal/adapters/telemetry"
	_ "go.trai.ch/bale/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/bale/internal/adapters/writer"
	// Register app nodes.
	_ "go.trai.ch/bale/internal/app"
)
