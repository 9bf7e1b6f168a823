package store

import (
	"io"
	"log/slog"
)

type BuilderOption func(o *builderOption)

type builderOption struct {
	logger  *slog.Logger
	dialect *Dialect
}

// WithLogger sets the logger statements are traced to. Statements are logged
// at debug level, failures at warn level.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(o *builderOption) {
		o.logger = logger
	}
}

// WithDialect overrides the dialect derived from the connection's driver name.
func WithDialect(d Dialect) BuilderOption {
	return func(o *builderOption) {
		o.dialect = &d
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type SaveOption func(o *saveOption)

type saveOption struct {
	skipValidation bool
}

// WithoutValidation makes Save skip the record's Validate hook.
func WithoutValidation() SaveOption {
	return func(o *saveOption) {
		o.skipValidation = true
	}
}
