package guitex

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// PoolOption configures a TexturePool during creation.
//
// Example:
//
//	pool := guitex.NewTexturePool(device,
//	    guitex.WithLabel("editor"),
//	    guitex.WithLimits(adapterLimits),
//	)
type PoolOption func(*poolOptions)

// poolOptions holds optional configuration for TexturePool creation.
type poolOptions struct {
	label  string
	limits gputypes.Limits
	logger *slog.Logger
}

// defaultPoolOptions returns the default pool options.
func defaultPoolOptions() poolOptions {
	return poolOptions{
		label:  "guitex",
		limits: gputypes.DefaultLimits(),
		logger: nil, // package logger
	}
}

// WithLabel sets the prefix of the debug labels given to created
// textures. Labels have the form "<prefix>_managed_<n>".
func WithLabel(prefix string) PoolOption {
	return func(o *poolOptions) {
		if prefix != "" {
			o.label = prefix
		}
	}
}

// WithLimits sets the device limits full-replace deltas are checked
// against. The default is gputypes.DefaultLimits().
func WithLimits(limits gputypes.Limits) PoolOption {
	return func(o *poolOptions) {
		o.limits = limits
	}
}

// WithLogger gives the pool its own logger instead of the package logger
// configured with SetLogger.
func WithLogger(l *slog.Logger) PoolOption {
	return func(o *poolOptions) {
		o.logger = l
	}
}
