// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/quick/internal/adapters/archive"
	_ "go.trai.ch/quick/internal/adapters/cas"
	_ "go.trai.ch/quick/internal/adapters/config"
	_ "go.trai.ch/quick/internal/adapters/fs"
	_ "go.trai.ch/quick/internal/adapters/logger"
	_ "go.trai.ch/quick/internal/adapters/metadata"
	_ "go.trai.ch/quick/internal/adapters/progress"
	_ "go.trai.ch/quick/internal/adapters/shell"
	_ "go.trai.ch/quick/internal/adapters/telemetry"
	_ "go.trai.ch/quick/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/quick/internal/app"
	_ "go.trai.ch/quick/internal/engine/builder"
)
