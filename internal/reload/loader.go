package reload

import (
	"context"
	"errors"
	"fmt"

	"sink-bom-backend/config"
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/store"
)

// Loader produces an unvalidated catalog definition.
type Loader interface {
	Load(ctx context.Context) (*catalog.Definition, error)
	Source() string
}

// FileLoader reads a YAML catalog file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) (*catalog.Definition, error) {
	return catalog.LoadFile(l.Path)
}

func (l FileLoader) Source() string { return "file:" + l.Path }

// StoreLoader reads the imported catalog tables.
type StoreLoader struct {
	Store store.Store
}

func (l StoreLoader) Load(ctx context.Context) (*catalog.Definition, error) {
	return l.Store.LoadCatalog(ctx)
}

func (l StoreLoader) Source() string { return "database" }

// NewLoader picks the loader for the configured catalog source.
func NewLoader(cfg *config.CatalogConfig, st store.Store) (Loader, error) {
	switch cfg.Source {
	case config.SourceFile:
		return FileLoader{Path: cfg.Path}, nil
	case config.SourceDatabase:
		if st == nil {
			return nil, errors.New("database catalog source requires a store")
		}
		return StoreLoader{Store: st}, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
