package sentence

type Doc struct {
	Id int

	Title string

	Labels []string
	Tokens [][]Token `json:"tokens"`
}

// Library is a collection of Doc
type Library []Doc

// NumSentences returns the number of sentences of all docs in the library.
func (l Library) NumSentences() int {
	n := 0
	for _, doc := range l {
		n += len(doc.Tokens)
	}
	return n
}

// Token represents a word of the sentence, with POS and dependency
// annotation.
type Token struct {
	// The CoNLL ID field, 1-based inside the sentence ("1", "2", ...)
	Id string `json:"id"`

	// The head of the token as annotated: the 1-based Id of the syntactic
	// parent, "0" for the virtual root or "_" when no annotation exists.
	Head string `json:"head"`

	Pos string `json:"pos"`
	Dep string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// Morphological features, "_" if none
	Feats string `json:"feats,omitempty"`

	// Enhanced dependencies and misc columns of CoNLL-U
	Deps string `json:"deps,omitempty"`
	Misc string `json:"misc,omitempty"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`
}
