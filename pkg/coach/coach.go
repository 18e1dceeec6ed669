// Package coach provides the public API for embedding the interview coach.
// This is the stable API for external consumers.
package coach

import (
	"github.com/tjfontaine/interview-coach/internal/pkg/config"
	"github.com/tjfontaine/interview-coach/internal/runtime"
)

// App is a fully wired interview coach.
// See internal/runtime.App for full documentation.
type App = runtime.App

// Config is the service configuration.
type Config = config.Config

// Option is a functional option for configuring an App.
type Option = runtime.Option

// New creates an App from a loaded config.
// Example:
//
//	cfg, err := coach.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	app, err := coach.New(ctx, cfg, coach.WithLogger(logger))
var New = runtime.New

// LoadConfig reads config.yaml (or $COACH_CONFIG) and COACH_ environment overrides.
var LoadConfig = config.Load

// Configuration options
var (
	WithLogger         = runtime.WithLogger
	WithResultStore    = runtime.WithResultStore
	WithEventPublisher = runtime.WithEventPublisher
	WithLanguageModel  = runtime.WithLanguageModel
	WithArchiver       = runtime.WithArchiver
)
