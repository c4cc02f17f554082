package main

import (
	"fmt"

	"github.com/revelaction/parsedist/render"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
)

func sentenceCommand(repo storage.DocReader, docId int, sentId int, ui UI) error {
	s, err := readSentence(repo, docId, sentId)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.W = ui.Out
	prefix := fmt.Sprintf("✍  %d-%d ", docId, sentId)
	r.Sentence(s, prefix)
	fmt.Fprintln(ui.Out)
	r.Tokens(s)

	return nil
}

func readSentence(repo storage.DocReader, docId, sentId int) ([]sent.Token, error) {
	doc, err := repo.Read(docId)
	if err != nil {
		return nil, err
	}

	if sentId < 0 || sentId >= len(doc.Tokens) {
		return nil, fmt.Errorf("sentence index %d out of bounds (doc has %d sentences)", sentId, len(doc.Tokens))
	}

	return doc.Tokens[sentId], nil
}
