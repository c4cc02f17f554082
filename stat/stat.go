package stat

import (
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/task"
)

type Handler struct {
	stats Stats

	// off diagonal parse distances seen so far
	distanceSum float64
	pairs       int
}

type Stats struct {
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// Placeholders counts tokens with an unassigned head.
	Placeholders int

	// MaxDistance is the largest tree distance between two tokens of a
	// sentence.
	MaxDistance int

	// MeanDistance is the mean tree distance between distinct tokens.
	MeanDistance float64

	// Malformed counts sentences whose heads do not form a tree.
	Malformed int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the sentences of doc to the statistics.
func (h *Handler) Aggregate(doc sent.Doc) {
	var parse task.ParseDistance

	for _, tokens := range doc.Tokens {
		h.stats.NumSentences++
		h.stats.NumTokens += len(tokens)
		h.stats.TokensPerSentenceDis[len(tokens)]++

		for _, t := range tokens {
			if t.Head == task.Placeholder {
				h.stats.Placeholders++
			}
		}

		m, err := parse.Labels(sent.NewObservation(tokens))
		if err != nil {
			h.stats.Malformed++
			continue
		}

		n, _ := m.Dims()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := m.At(i, j)
				h.distanceSum += d
				h.pairs++
				if int(d) > h.stats.MaxDistance {
					h.stats.MaxDistance = int(d)
				}
			}
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}

	if h.pairs > 0 {
		h.stats.MeanDistance = h.distanceSum / float64(h.pairs)
	}
}
