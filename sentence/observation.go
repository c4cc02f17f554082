package sentence

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned by Validate when the annotation columns of
// an Observation do not all have the same length.
var ErrLengthMismatch = errors.New("observation: annotation fields differ in length")

// Observation holds the annotation of one sentence column-wise, one slice
// per CoNLL field. All non-nil columns have the same length.
type Observation struct {
	Index       []string
	Form        []string
	Lemma       []string
	UPOS        []string
	XPOS        []string
	Feats       []string
	HeadIndices []string
	DepRels     []string
	Deps        []string
	Misc        []string
}

// NewObservation builds an Observation from the tokens of a sentence.
func NewObservation(tokens []Token) Observation {
	n := len(tokens)
	obs := Observation{
		Index:       make([]string, n),
		Form:        make([]string, n),
		Lemma:       make([]string, n),
		UPOS:        make([]string, n),
		XPOS:        make([]string, n),
		Feats:       make([]string, n),
		HeadIndices: make([]string, n),
		DepRels:     make([]string, n),
		Deps:        make([]string, n),
		Misc:        make([]string, n),
	}

	for i, t := range tokens {
		obs.Index[i] = t.Id
		obs.Form[i] = t.Text
		obs.Lemma[i] = t.Lemma
		obs.UPOS[i] = t.Pos
		obs.XPOS[i] = t.Tag
		obs.Feats[i] = t.Feats
		obs.HeadIndices[i] = t.Head
		obs.DepRels[i] = t.Dep
		obs.Deps[i] = t.Deps
		obs.Misc[i] = t.Misc
	}

	return obs
}

// Len returns the number of tokens of the sentence, the length of the Index
// column. Observations built without an Index column fall back to the head
// column.
func (o Observation) Len() int {
	if o.Index != nil {
		return len(o.Index)
	}
	return len(o.HeadIndices)
}

// Validate checks that every non-nil column has Len() entries.
func (o Observation) Validate() error {
	n := o.Len()
	for _, c := range o.columns() {
		if c.values == nil {
			continue
		}
		if len(c.values) != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrLengthMismatch, c.name, len(c.values), n)
		}
	}
	return nil
}

type column struct {
	name   string
	values []string
}

func (o Observation) columns() []column {
	return []column{
		{"index", o.Index},
		{"form", o.Form},
		{"lemma", o.Lemma},
		{"upos", o.UPOS},
		{"xpos", o.XPOS},
		{"feats", o.Feats},
		{"head", o.HeadIndices},
		{"deprel", o.DepRels},
		{"deps", o.Deps},
		{"misc", o.Misc},
	}
}
