package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revelaction/parsedist/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// LabelStore keeps label matrices in the labels table, one row per doc,
// sentence and task. The matrix is stored as a JSON array of rows.
type LabelStore struct {
	pool *sqlitex.Pool
}

var _ storage.LabelRepository = (*LabelStore)(nil)

func NewLabelStore(pool *sqlitex.Pool) *LabelStore {
	return &LabelStore{pool: pool}
}

func (h *LabelStore) WriteLabels(ctx context.Context, ls storage.LabelSet) error {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	r, c := ls.Matrix.Dims()
	data, err := json.Marshal(storage.Rows(ls.Matrix))
	if err != nil {
		return err
	}

	err = sqlitex.Execute(conn, `
		INSERT INTO labels (doc_id, sent_id, task, n_rows, n_cols, data, updated)
		VALUES (?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(doc_id, sent_id, task) DO UPDATE SET
			n_rows = excluded.n_rows,
			n_cols = excluded.n_cols,
			data = excluded.data,
			updated = excluded.updated
	`, &sqlitex.ExecOptions{
		Args: []interface{}{ls.DocId, ls.SentId, ls.Task, r, c, string(data)},
	})
	if err != nil {
		return fmt.Errorf("failed to write labels %s: %w", ls.Key(), err)
	}

	return nil
}

func (h *LabelStore) ReadLabels(ctx context.Context, docId, sentId int, task string) (storage.LabelSet, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return storage.LabelSet{}, err
	}
	defer h.pool.Put(conn)

	ls := storage.LabelSet{DocId: docId, SentId: sentId, Task: task}
	found := false

	err = sqlitex.Execute(conn, "SELECT data FROM labels WHERE doc_id = ? AND sent_id = ? AND task = ?", &sqlitex.ExecOptions{
		Args: []interface{}{docId, sentId, task},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var rows [][]float64
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &rows); err != nil {
				return err
			}

			m, err := storage.FromRows(rows)
			if err != nil {
				return err
			}

			ls.Matrix = m
			found = true
			return nil
		},
	})
	if err != nil {
		return storage.LabelSet{}, err
	}

	if !found {
		return storage.LabelSet{}, fmt.Errorf("labels %s: %w", ls.Key(), storage.ErrNotFound)
	}

	return ls, nil
}

// Count returns the number of label sets stored for task.
func (h *LabelStore) Count(ctx context.Context, task string) (int, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	count := 0
	err = sqlitex.Execute(conn, "SELECT count(*) FROM labels WHERE task = ?", &sqlitex.ExecOptions{
		Args: []interface{}{task},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
