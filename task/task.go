// Package task maps sentence observations to matrices of pairwise labels:
// distances in the dependency tree, and two baselines sharing the same
// interface.
package task

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/revelaction/parsedist/sentence"
	"gonum.org/v1/gonum/mat"
)

// Task maps an observation to a length x length matrix of labels.
type Task interface {
	Name() string
	Labels(obs sentence.Observation) (*mat.Dense, error)
}

const (
	LinearName = "linear"
	RandomName = "random"
	ParseName  = "parse"
)

var (
	_ Task = Linear{}
	_ Task = (*Random)(nil)
	_ Task = ParseDistance{}
)

// Names returns the names accepted by New.
func Names() []string {
	return []string{LinearName, RandomName, ParseName}
}

// New returns the task registered under name. "tree" is accepted as an
// alias of "parse". The random task gets a randomly seeded source; use
// NewRandom for control over the seed and range.
func New(name string) (Task, error) {
	switch name {
	case LinearName:
		return Linear{}, nil
	case RandomName:
		return NewRandom()
	case ParseName, "tree":
		return ParseDistance{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
}

// newMatrix allocates a zeroed n x n matrix. gonum does not allocate zero
// sized matrices, so an empty sentence gets the empty zero value.
func newMatrix(n int) *mat.Dense {
	if n == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(n, n, nil)
}

// Linear labels every pair of tokens with their distance in the string,
// ignoring the annotation.
type Linear struct{}

func (Linear) Name() string { return LinearName }

func (Linear) Labels(obs sentence.Observation) (*mat.Dense, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	n := obs.Len()
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := float64(j - i)
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}
	return m, nil
}

// Random labels every cell with a value drawn uniformly from [Low, High).
//
// Cells are drawn independently, both (i, j) and (j, i) and the diagonal:
// the matrix is NOT symmetric and its diagonal is not zero. This is the
// noise baseline; the other tasks are symmetric.
type Random struct {
	low  float64
	high float64

	// seed is set by WithSeed and keys the per sentence sources of For.
	seed   uint64
	seeded bool

	mu  sync.Mutex
	rng *rand.Rand
}

// SentenceTask is a task whose labels depend on the sentence they are
// computed for. Batch labeling calls For with the sentence key and labels
// the sentence with the returned task.
type SentenceTask interface {
	Task
	For(docId, sentId int) Task
}

var _ SentenceTask = (*Random)(nil)

// RandomOption configures a Random task.
type RandomOption func(*Random)

// WithRange sets the sampling range [low, high). The default is [0, 1).
func WithRange(low, high float64) RandomOption {
	return func(r *Random) {
		r.low = low
		r.high = high
	}
}

// WithSource sets the entropy source. A task with a plain source shares it
// between all sentences, so the draws of a sentence depend on the order
// sentences are labeled in.
func WithSource(src rand.Source) RandomOption {
	return func(r *Random) {
		r.rng = rand.New(src)
		r.seeded = false
	}
}

// WithSeed seeds a PCG source, for reproducible matrices. For derives the
// source of each sentence from the seed and the sentence key, so a seeded
// run yields the same matrices whatever the number of workers.
func WithSeed(seed uint64) RandomOption {
	return func(r *Random) {
		r.rng = rand.New(rand.NewPCG(seed, seed))
		r.seed = seed
		r.seeded = true
	}
}

// NewRandom returns a Random task. It is safe for concurrent use.
func NewRandom(opts ...RandomOption) (*Random, error) {
	r := &Random{low: 0, high: 1}
	for _, opt := range opts {
		opt(r)
	}

	// the width must be finite too, or a zero draw yields 0*Inf = NaN
	if !(r.low < r.high) || math.IsInf(r.high-r.low, 0) {
		return nil, fmt.Errorf("%w: [%g, %g)", ErrInvalidRange, r.low, r.high)
	}

	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r, nil
}

func (r *Random) Name() string { return RandomName }

// For returns the task labeling the sentence sentId of doc docId. A seeded
// task returns a task with its own source keyed by the seed and the
// sentence; an unseeded task returns itself.
func (r *Random) For(docId, sentId int) Task {
	if !r.seeded {
		return r
	}

	key := uint64(uint32(docId))<<32 | uint64(uint32(sentId))
	return &Random{
		low:    r.low,
		high:   r.high,
		seed:   r.seed,
		seeded: true,
		rng:    rand.New(rand.NewPCG(r.seed, key)),
	}
}

// Range returns the sampling range.
func (r *Random) Range() (low, high float64) {
	return r.low, r.high
}

func (r *Random) Labels(obs sentence.Observation) (*mat.Dense, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	n := obs.Len()
	m := newMatrix(n)

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, r.sample())
		}
	}
	return m, nil
}

func (r *Random) sample() float64 {
	v := r.low + (r.high-r.low)*r.rng.Float64()
	// rounding can land on high for wide ranges
	if v >= r.high {
		v = math.Nextafter(r.high, r.low)
	}
	return v
}

// ParseDistance labels every pair of tokens with their path distance in
// the dependency tree given by the head annotation.
type ParseDistance struct{}

func (ParseDistance) Name() string { return ParseName }

func (ParseDistance) Labels(obs sentence.Observation) (*mat.Dense, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	heads, err := NormalizeHeads(obs.HeadIndices)
	if err != nil {
		return nil, err
	}

	if len(heads) != obs.Len() {
		return nil, fmt.Errorf("%w: %d heads for %d tokens", ErrLengthMismatch, len(heads), obs.Len())
	}

	return Distances(heads)
}

// Distances returns the matrix of path distances between all pairs of
// tokens of a normalized head array. Heads that do not form a rooted tree
// fail with ErrMalformedAnnotation.
func Distances(heads []int) (*mat.Dense, error) {
	if err := Rooted(heads); err != nil {
		return nil, err
	}

	n := len(heads)
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d, err := pathDistance(heads, i, j)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, float64(d))
			m.Set(j, i, float64(d))
		}
	}
	return m, nil
}
