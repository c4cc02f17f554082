// Package conll reads dependency annotated sentences in the CoNLL-X and
// CoNLL-U formats.
//
// Fields are kept as the raw strings of the file, so a missing head "_"
// reaches the label tasks unchanged.
package conll

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sent "github.com/revelaction/parsedist/sentence"
)

const (
	fieldSeparator = "\t"
	numFields      = 10
	commentPrefix  = "#"

	// maxLineSize bounds a single row
	maxLineSize = 1024 * 1024
)

// column positions
const (
	colID = iota
	colForm
	colLemma
	colUPOS
	colXPOS
	colFeats
	colHead
	colDepRel
	colDeps
	colMisc
)

// ErrFieldCount is returned for a row without exactly ten fields.
var ErrFieldCount = errors.New("conll: row must have 10 tab separated fields")

// Extensions lists the file extensions read as CoNLL.
var Extensions = []string{".conllu", ".conll", ".conllx"}

// IsConllFile returns true if the extension of name is a CoNLL extension.
func IsConllFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Read returns the sentences of r as tokens.
//
// Comment lines are skipped, and so are multiword token ranges ("3-4") and
// empty nodes ("5.1"): they are not nodes of the basic dependency tree.
func Read(r io.Reader) ([][]sent.Token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var sentences [][]sent.Token
	var current []sent.Token

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				sentences = append(sentences, current)
			}
			current = nil
			continue
		}

		if strings.HasPrefix(line, commentPrefix) {
			continue
		}

		record := strings.Split(line, fieldSeparator)
		if len(record) != numFields {
			return nil, fmt.Errorf("line %d: %w, got %d", lineNum, ErrFieldCount, len(record))
		}

		if !isWordID(record[colID]) {
			continue
		}

		current = append(current, parseRow(record, len(current)))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conll: %w", err)
	}

	if len(current) > 0 {
		sentences = append(sentences, current)
	}

	return sentences, nil
}

// ReadObservations returns one Observation per sentence of r.
func ReadObservations(r io.Reader) ([]sent.Observation, error) {
	sentences, err := Read(r)
	if err != nil {
		return nil, err
	}

	observations := make([]sent.Observation, len(sentences))
	for i, tokens := range sentences {
		observations[i] = sent.NewObservation(tokens)
	}
	return observations, nil
}

// ReadDoc reads r as a Doc with the given title.
func ReadDoc(r io.Reader, title string) (sent.Doc, error) {
	sentences, err := Read(r)
	if err != nil {
		return sent.Doc{}, err
	}
	return sent.Doc{Title: title, Tokens: sentences}, nil
}

// ReadFile reads the CoNLL file at path as a Doc titled by its base name.
func ReadFile(path string) (sent.Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	doc, err := ReadDoc(f, filepath.Base(path))
	if err != nil {
		return sent.Doc{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func parseRow(record []string, index int) sent.Token {
	return sent.Token{
		Id:    record[colID],
		Text:  record[colForm],
		Lemma: record[colLemma],
		Pos:   record[colUPOS],
		Tag:   record[colXPOS],
		Feats: record[colFeats],
		Head:  record[colHead],
		Dep:   record[colDepRel],
		Deps:  record[colDeps],
		Misc:  record[colMisc],
		Index: index,
	}
}

// isWordID reports whether id is a plain integer word ID.
func isWordID(id string) bool {
	if strings.ContainsAny(id, "-.") {
		return false
	}
	_, err := strconv.Atoi(id)
	return err == nil
}
