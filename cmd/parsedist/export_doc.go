package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/parsedist/storage/filesystem"
	"github.com/revelaction/parsedist/storage/sqlite/zombiezen"
)

type ExportDocOptions struct {
	From       string
	To         string
	NoProgress bool
}

// exportDocCommand writes the docs of a SQLite file as JSON docs into a
// directory.
func exportDocCommand(opts ExportDocOptions, p *Pool, ui UI) error {
	pool, err := p.Open(opts.From)
	if err != nil {
		return err
	}
	src := zombiezen.NewDocStore(pool)

	// Ensure target directory exists
	if err := os.MkdirAll(opts.To, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	docs, err := src.List()
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	if !opts.NoProgress && len(docs) > 0 {
		progress := uiprogress.New()
		progress.SetOut(ui.Err)
		bar = progress.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		progress.Start()
		defer progress.Stop()
	}

	count := 0
	for _, docMeta := range docs {
		doc, err := src.Read(docMeta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s (id %d): %w", docMeta.Title, docMeta.Id, err)
		}

		targetPath := filepath.Join(opts.To, jsonName(docMeta.Title))
		if err := filesystem.WriteDoc(targetPath, doc); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetPath, err)
		}
		count++

		if bar != nil {
			bar.Incr()
		}
	}

	fmt.Fprintf(ui.Out, "Successfully exported %d docs from %s to %s\n", count, opts.From, opts.To)
	return nil
}

// jsonName replaces the extension of a doc title with .json, so exported
// CoNLL docs are read back as JSON docs.
func jsonName(title string) string {
	return strings.TrimSuffix(filepath.Base(title), filepath.Ext(title)) + ".json"
}
