package main

import (
	"github.com/revelaction/parsedist/explore"
	"github.com/revelaction/parsedist/render"
	"github.com/revelaction/parsedist/storage"
)

func exploreCommand(repo storage.DocReader, opts ExploreOptions, ui UI) error {
	tk, err := newTask(opts.Task, nil)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.HasColor = !opts.NoColor
	r.W = ui.Out

	// now present the REPL
	h := explore.NewHandler(repo, tk, r)
	return h.Run()
}
