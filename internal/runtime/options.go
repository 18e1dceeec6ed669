package runtime

import (
	"fmt"
	"log/slog"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// Option is a functional option for configuring an App. Options override
// what the config would otherwise build.
type Option func(*App) error

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

// WithResultStore uses store instead of the configured storage kind.
func WithResultStore(store ports.ResultStore) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}

// WithEventPublisher uses publisher instead of the configured events kind.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(a *App) error {
		a.events = publisher
		return nil
	}
}

// WithLanguageModel uses model instead of the configured LLM provider.
func WithLanguageModel(model ports.LanguageModelClient) Option {
	return func(a *App) error {
		a.model = model
		return nil
	}
}

// WithArchiver uses archiver instead of the configured S3 archive.
func WithArchiver(archiver ports.ReportArchiver) Option {
	return func(a *App) error {
		a.archiver = archiver
		return nil
	}
}
