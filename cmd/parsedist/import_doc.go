package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/parsedist/storage/filesystem"
	"github.com/revelaction/parsedist/storage/sqlite/zombiezen"
)

func importDocCommand(opts ImportDocOptions, p *Pool, ui UI) error {
	src, err := filesystem.NewDocStore(opts.From)
	if err != nil {
		return err
	}

	pool, err := p.Open(opts.To)
	if err != nil {
		return err
	}

	if err := zombiezen.CreateDocTables(pool); err != nil {
		return fmt.Errorf("failed to create docs table: %w", err)
	}

	dst := zombiezen.NewDocStore(pool)

	fmt.Fprintf(ui.Out, "Reading docs from %s...\n", opts.From)
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
			return fmt.Errorf("failed to read doc %s: %w", docMeta.Title, err)
		}

		if err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", docMeta.Title, err)
		}
		count++

		if bar != nil {
			bar.Incr()
		}
	}

	fmt.Fprintf(ui.Out, "Successfully imported %d docs from %s to %s\n", count, opts.From, opts.To)
	return nil
}
