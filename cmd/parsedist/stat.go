package main

import (
	"fmt"
	"sort"

	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/stat"
	"github.com/revelaction/parsedist/storage"
)

func statCommand(repo storage.DocReader, docId int, sentId *int, ui UI) error {
	doc, err := repo.Read(docId)
	if err != nil {
		return err
	}

	if sentId != nil {
		if *sentId < 0 || *sentId >= len(doc.Tokens) {
			return fmt.Errorf("sentence index %d out of bounds (doc has %d sentences)", *sentId, len(doc.Tokens))
		}
		doc = sent.Doc{Tokens: [][]sent.Token{doc.Tokens[*sentId]}}
	}

	hdl := stat.NewHandler()
	hdl.Aggregate(doc)

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Num sentences %d, num tokens %d, num tokens per sentence %d\n", stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)
	fmt.Fprintf(ui.Out, "Placeholder heads %d, malformed sentences %d\n", stats.Placeholders, stats.Malformed)
	fmt.Fprintf(ui.Out, "Max tree distance %d, mean tree distance %.3f\n", stats.MaxDistance, stats.MeanDistance)

	lengths := make([]int, 0, len(stats.TokensPerSentenceDis))
	for l := range stats.TokensPerSentenceDis {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	for _, l := range lengths {
		fmt.Fprintf(ui.Out, "%6d tokens: %d\n", l, stats.TokensPerSentenceDis[l])
	}

	return nil
}
