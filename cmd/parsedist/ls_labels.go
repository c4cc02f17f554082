package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/revelaction/parsedist/storage"
)

// lsLabelsCommand prints the distinct doc labels containing match.
func lsLabelsCommand(repo storage.DocReader, match string, ui UI) error {
	docs, err := repo.List()
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var labels []string
	for _, doc := range docs {
		for _, l := range doc.Labels {
			if seen[l] || !strings.Contains(l, match) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)

	if len(labels) > 0 {
		fmt.Fprintln(ui.Out, strings.Join(labels, ", "))
	}

	return nil
}
