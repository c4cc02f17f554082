package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/parsedist/storage"
)

// JSONRenderer writes label sets as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Labels is the JSON form of a label set.
type Labels struct {
	DocId  int         `json:"doc_id"`
	SentId int         `json:"sent_id"`
	Task   string      `json:"task"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Data   [][]float64 `json:"data"`
}

func NewLabels(ls storage.LabelSet) Labels {
	r, c := ls.Matrix.Dims()
	return Labels{
		DocId:  ls.DocId,
		SentId: ls.SentId,
		Task:   ls.Task,
		Rows:   r,
		Cols:   c,
		Data:   storage.Rows(ls.Matrix),
	}
}

// Render serializes the label sets as a JSON array.
func (r *JSONRenderer) Render(sets ...storage.LabelSet) error {
	out := make([]Labels, 0, len(sets))
	for _, ls := range sets {
		out = append(out, NewLabels(ls))
	}
	return json.NewEncoder(r.W).Encode(out)
}
