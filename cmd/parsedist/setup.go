package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/revelaction/parsedist/storage"
	"github.com/revelaction/parsedist/storage/filesystem"
	"github.com/revelaction/parsedist/storage/postgres"
	"github.com/revelaction/parsedist/storage/sqlite/zombiezen"
)

// NewDocRepository returns a filesystem store for a directory and a SQLite
// store for a file.
func NewDocRepository(p *Pool, path string) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}

// LabelRepository is a label store that must be closed after use.
type LabelRepository interface {
	storage.LabelRepository
	Close()
}

// NewLabelRepository returns a PostgreSQL store for a postgres URL and a
// SQLite store otherwise. The label tables are created if missing.
func NewLabelRepository(ctx context.Context, p *Pool, dsn string) (LabelRepository, error) {
	if isPostgres(dsn) {
		store, err := postgres.NewLabelStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := store.Initialize(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}

	pool, err := p.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := zombiezen.CreateLabelTables(pool); err != nil {
		return nil, fmt.Errorf("failed to create labels table: %w", err)
	}
	return sqliteLabels{zombiezen.NewLabelStore(pool)}, nil
}

// sqliteLabels leaves closing the pool to Pool.
type sqliteLabels struct {
	*zombiezen.LabelStore
}

func (sqliteLabels) Close() {}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
