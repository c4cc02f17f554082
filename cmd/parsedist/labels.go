package main

import (
	"fmt"

	"github.com/revelaction/parsedist/batch"
	"github.com/revelaction/parsedist/render"
	"github.com/revelaction/parsedist/storage"
)

func labelsCommand(repo storage.DocReader, opts LabelsOptions, docId, sentId int, ui UI) error {
	if opts.Format != FormatText && opts.Format != FormatJSON {
		return fmt.Errorf("unknown format %q, allowed values are %s, %s", opts.Format, FormatText, FormatJSON)
	}

	tk, err := newTask(opts.Task, opts.Seed)
	if err != nil {
		return err
	}

	s, err := readSentence(repo, docId, sentId)
	if err != nil {
		return err
	}

	ls, err := batch.LabelSentence(tk, docId, sentId, s)
	if err != nil {
		return err
	}

	if opts.Format == FormatJSON {
		return render.NewJSONRenderer(ui.Out).Render(ls)
	}

	r := &render.Renderer{HasColor: !opts.NoColor, Precision: opts.Precision, W: ui.Out}
	r.Sentence(s, fmt.Sprintf("✍  %d-%d %s ", docId, sentId, tk.Name()))
	fmt.Fprintln(ui.Out)
	r.Matrix(s, ls.Matrix)
	return nil
}
