package task

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the head field of a token without head annotation.
const Placeholder = "_"

// NormalizeHeads converts the head fields of a sentence to integer head
// indices (1-based, 0 is the root).
//
// A placeholder is attached to the root. A placeholder still occupies a
// token slot, so every real head that follows is shifted by the number of
// placeholders seen before it.
func NormalizeHeads(fields []string) ([]int, error) {
	n := len(fields)
	heads := make([]int, n)

	placeholders := 0
	for k, field := range fields {
		if field == Placeholder {
			heads[k] = 0
			placeholders++
			continue
		}

		h, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("%w: token %d has head %q", ErrInvalidHead, k, field)
		}

		h += placeholders
		if h < 0 || h > n {
			return nil, fmt.Errorf("%w: token %d has head %d outside [0, %d]", ErrMalformedAnnotation, k, h, n)
		}
		heads[k] = h
	}

	return heads, nil
}
