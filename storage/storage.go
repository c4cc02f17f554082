package storage

import (
	"context"
	"errors"
	"fmt"

	sent "github.com/revelaction/parsedist/sentence"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFound is returned when a doc or a label set does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrReadOnly is returned by repositories that do not support writes.
	ErrReadOnly = errors.New("storage: read-only storage")
)

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// Content (Tokens) is not loaded.
	List() ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences to storage
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// LabelSet is the label matrix of one sentence computed by one task.
type LabelSet struct {
	DocId  int
	SentId int
	Task   string
	Matrix *mat.Dense
}

// Key identifies the label set in log lines and errors.
func (ls LabelSet) Key() string {
	return fmt.Sprintf("%d-%d/%s", ls.DocId, ls.SentId, ls.Task)
}

// LabelWriter defines write operations for label storage
type LabelWriter interface {
	// WriteLabels persists a label set, replacing an existing one with the
	// same doc, sentence and task.
	WriteLabels(ctx context.Context, ls LabelSet) error
}

// LabelReader defines read operations for label storage
type LabelReader interface {
	// ReadLabels returns the label set of a sentence for a task.
	ReadLabels(ctx context.Context, docId, sentId int, task string) (LabelSet, error)
}

// LabelRepository combines read and write operations
type LabelRepository interface {
	LabelReader
	LabelWriter
}

// Rows returns the matrix as a slice of rows, the encoding used by the
// label stores.
func Rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

// FromRows builds a matrix from rows of equal length. No rows gives the
// empty matrix.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return &mat.Dense{}, nil
	}

	c := len(rows[0])
	if c == 0 {
		return nil, fmt.Errorf("storage: matrix rows are empty")
	}

	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("storage: matrix row %d has %d columns, want %d", i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}
