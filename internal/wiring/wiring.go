// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sweep/internal/adapters/config"
	_ "go.trai.ch/sweep/internal/adapters/fetch"
	_ "go.trai.ch/sweep/internal/adapters/logger"
	_ "go.trai.ch/sweep/internal/adapters/metrics"
	_ "go.trai.ch/sweep/internal/adapters/prompt"
	_ "go.trai.ch/sweep/internal/adapters/report"
	_ "go.trai.ch/sweep/internal/adapters/shell"
	_ "go.trai.ch/sweep/internal/adapters/storage"
	_ "go.trai.ch/sweep/internal/adapters/telemetry"
	_ "go.trai.ch/sweep/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/sweep/internal/app"
	_ "go.trai.ch/sweep/internal/engine/lifecycle"
	_ "go.trai.ch/sweep/internal/engine/scheduler"
	_ "go.trai.ch/sweep/internal/engine/taskctx"
)
