// Package logging builds the service's zap logger.
package logging

import (
	"go.uber.org/zap"
)

// Options selects level and encoding.
type Options struct {
	Level       string
	Format      string // "json" or "console"
	Development bool
}

// New builds a logger. An unparsable level falls back to info.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = level

	if opts.Format == "console" {
		cfg.Encoding = "console"
	} else {
		cfg.Encoding = "json"
	}

	return cfg.Build(zap.Fields(zap.String("service", "bomd")))
}
