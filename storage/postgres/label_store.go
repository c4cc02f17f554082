// Package postgres stores label matrices in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/revelaction/parsedist/storage"
	"gonum.org/v1/gonum/mat"
)

// LabelStore keeps label matrices in the labels table. The matrix is a
// DOUBLE PRECISION[] holding the rows one after the other.
type LabelStore struct {
	Pool *pgxpool.Pool
}

var _ storage.LabelRepository = (*LabelStore)(nil)

// NewLabelStore connects to the database at connStr.
func NewLabelStore(ctx context.Context, connStr string) (*LabelStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &LabelStore{Pool: pool}, nil
}

// Initialize creates the labels table.
func (s *LabelStore) Initialize(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS labels (
			doc_id INTEGER NOT NULL,
			sent_id INTEGER NOT NULL,
			task TEXT NOT NULL,
			n_rows INTEGER NOT NULL,
			n_cols INTEGER NOT NULL,
			data DOUBLE PRECISION[] NOT NULL,
			updated TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (doc_id, sent_id, task)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create labels table: %w", err)
	}

	_, err = s.Pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS labels_task_idx ON labels (task)`)
	if err != nil {
		return fmt.Errorf("failed to create labels index: %w", err)
	}

	return nil
}

func (s *LabelStore) Close() {
	s.Pool.Close()
}

func (s *LabelStore) WriteLabels(ctx context.Context, ls storage.LabelSet) error {
	r, c, data := flatten(ls)

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO labels (doc_id, sent_id, task, n_rows, n_cols, data, updated)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (doc_id, sent_id, task) DO UPDATE SET
			n_rows = EXCLUDED.n_rows,
			n_cols = EXCLUDED.n_cols,
			data = EXCLUDED.data,
			updated = EXCLUDED.updated
	`, ls.DocId, ls.SentId, ls.Task, r, c, data)
	if err != nil {
		return fmt.Errorf("failed to write labels %s: %w", ls.Key(), err)
	}

	return nil
}

func (s *LabelStore) ReadLabels(ctx context.Context, docId, sentId int, task string) (storage.LabelSet, error) {
	ls := storage.LabelSet{DocId: docId, SentId: sentId, Task: task}

	var r, c int
	var data []float64
	err := s.Pool.QueryRow(ctx, `
		SELECT n_rows, n_cols, data FROM labels
		WHERE doc_id = $1 AND sent_id = $2 AND task = $3
	`, docId, sentId, task).Scan(&r, &c, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.LabelSet{}, fmt.Errorf("labels %s: %w", ls.Key(), storage.ErrNotFound)
	}
	if err != nil {
		return storage.LabelSet{}, fmt.Errorf("failed to read labels %s: %w", ls.Key(), err)
	}

	m, err := unflatten(r, c, data)
	if err != nil {
		return storage.LabelSet{}, fmt.Errorf("labels %s: %w", ls.Key(), err)
	}
	ls.Matrix = m
	return ls, nil
}

// flatten returns the dimensions and the row-major data of the matrix.
func flatten(ls storage.LabelSet) (int, int, []float64) {
	r, c := ls.Matrix.Dims()
	data := make([]float64, 0, r*c)
	for _, row := range storage.Rows(ls.Matrix) {
		data = append(data, row...)
	}
	return r, c, data
}

func unflatten(r, c int, data []float64) (*mat.Dense, error) {
	if len(data) != r*c {
		return nil, fmt.Errorf("storage: %d values for a %dx%d matrix", len(data), r, c)
	}

	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = data[i*c : (i+1)*c]
	}
	return storage.FromRows(rows)
}
