package main

import (
	"fmt"

	"github.com/revelaction/parsedist/storage"
)

func lsDocCommand(repo storage.DocReader, ui UI) error {
	docs, err := repo.List()
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(ui.Out, "📖 %d %s\n", doc.Id, doc.Title)
	}

	return nil
}
