package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/revelaction/parsedist/conll"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
)

type DocStore struct {
	docDir string

	// In-memory cache
	docs []sent.Doc
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document handler. JSON docs and CoNLL
// files of docDir are listed, sorted by name; the doc Id is the position
// in that order.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if isDocFile(file.Name()) {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	docs := make([]sent.Doc, len(names))
	for idx, name := range names {
		docs[idx] = sent.Doc{
			Id:    idx,
			Title: name,
		}
	}

	return &DocStore{
		docDir: docDir,
		docs:   docs,
	}, nil
}

// LoadAll preloads all docs into memory.
func (h *DocStore) LoadAll(cb func(total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		doc := &h.docs[i] // pointer to modify in place

		if cb != nil {
			cb(total, doc.Title)
		}

		if doc.Tokens != nil {
			continue
		}

		fullDoc, err := h.load(doc.Title)
		if err != nil {
			return err
		}

		// Copy loaded content into existing metadata struct
		doc.Tokens = fullDoc.Tokens
		doc.Labels = fullDoc.Labels
		// Title and Id are already set
	}

	return nil
}

func (h *DocStore) List() ([]sent.Doc, error) {
	return h.docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc id out of range: %d: %w", id, storage.ErrNotFound)
	}

	doc := h.docs[id]
	if doc.Tokens != nil {
		return doc, nil
	}

	full, err := h.load(doc.Title)
	if err != nil {
		return sent.Doc{}, err
	}
	full.Id = doc.Id
	full.Title = doc.Title
	return full, nil
}

func (h *DocStore) Write(doc sent.Doc) error {
	return storage.ErrReadOnly
}

func (h *DocStore) load(name string) (sent.Doc, error) {
	path := filepath.Join(h.docDir, name)
	if conll.IsConllFile(name) {
		return conll.ReadFile(path)
	}
	return ReadDoc(path)
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}

// WriteDoc writes doc as indented JSON to path.
func WriteDoc(path string, doc sent.Doc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isDocFile(name string) bool {
	return filepath.Ext(name) == ".json" || conll.IsConllFile(name)
}
