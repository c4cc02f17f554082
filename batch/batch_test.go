package batch

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/revelaction/parsedist/metrics"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
	"github.com/revelaction/parsedist/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func tokens(heads ...string) []sent.Token {
	ts := make([]sent.Token, len(heads))
	for i, h := range heads {
		ts[i] = sent.Token{Id: string(rune('1' + i)), Head: h, Index: i}
	}
	return ts
}

func library() sent.Library {
	return sent.Library{
		{Id: 0, Title: "a", Tokens: [][]sent.Token{
			tokens("2", "0"),
			tokens("0", "1", "2"),
		}},
		{Id: 1, Title: "b", Tokens: [][]sent.Token{
			tokens("0"),
			tokens("2", "1", "0"), // cycle
			tokens("3", "3", "0"),
		}},
	}
}

func collect(t *testing.T) (Sink, func() []storage.LabelSet) {
	t.Helper()
	var sets []storage.LabelSet
	sink := func(ls storage.LabelSet) error {
		sets = append(sets, ls)
		return nil
	}
	return sink, func() []storage.LabelSet {
		sort.Slice(sets, func(i, j int) bool {
			if sets[i].DocId != sets[j].DocId {
				return sets[i].DocId < sets[j].DocId
			}
			return sets[i].SentId < sets[j].SentId
		})
		return sets
	}
}

func TestLabelSentence(t *testing.T) {
	ls, err := LabelSentence(task.ParseDistance{}, 3, 1, tokens("3", "3", "0"))
	require.NoError(t, err)
	assert.Equal(t, 3, ls.DocId)
	assert.Equal(t, 1, ls.SentId)
	assert.Equal(t, "parse", ls.Task)
	assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
		0, 2, 1,
		2, 0, 1,
		1, 1, 0,
	}), ls.Matrix))

	_, err = LabelSentence(task.ParseDistance{}, 3, 2, tokens("1", "0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, task.ErrMalformedAnnotation))
	assert.Contains(t, err.Error(), "doc 3 sentence 2")
}

func TestRunLinear(t *testing.T) {
	sink, sets := collect(t)
	var calls atomic.Int32

	l := NewLabeler(task.Linear{}, WithWorkers(2))
	summary, err := l.Run(context.Background(), library(), sink, func() { calls.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, Summary{Labeled: 5}, summary)
	assert.Equal(t, int32(5), calls.Load())

	got := sets()
	require.Len(t, got, 5)
	assert.Equal(t, 1, got[3].DocId)
	assert.Equal(t, 1, got[3].SentId)
	r, _ := got[3].Matrix.Dims()
	assert.Equal(t, 3, r)
}

func TestRunFailsOnMalformed(t *testing.T) {
	sink, _ := collect(t)
	m := metrics.New(nil)

	l := NewLabeler(task.ParseDistance{}, WithWorkers(1), WithMetrics(m))
	_, err := l.Run(context.Background(), library(), sink, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, task.ErrMalformedAnnotation))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LabelErrors.WithLabelValues("parse", task.KindMalformed)))
}

func TestRunSkipMalformed(t *testing.T) {
	sink, sets := collect(t)
	m := metrics.New(nil)
	var calls atomic.Int32

	l := NewLabeler(task.ParseDistance{}, WithWorkers(3), WithSkipMalformed(true), WithMetrics(m))
	summary, err := l.Run(context.Background(), library(), sink, func() { calls.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, Summary{Labeled: 4, Skipped: 1}, summary)
	assert.Equal(t, int32(5), calls.Load())
	assert.Len(t, sets(), 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.SentencesLabeled.WithLabelValues("parse")))
}

func TestRunSkipDoesNotHideLengthErrors(t *testing.T) {
	sink, _ := collect(t)
	lib := sent.Library{{Tokens: [][]sent.Token{tokens("0")}}}

	failing := taskFunc(func(sent.Observation) (*mat.Dense, error) {
		return nil, task.ErrLengthMismatch
	})

	l := NewLabeler(failing, WithSkipMalformed(true))
	_, err := l.Run(context.Background(), lib, sink, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, task.ErrLengthMismatch))
}

func TestRunSinkError(t *testing.T) {
	boom := errors.New("disk full")
	l := NewLabeler(task.Linear{}, WithWorkers(2))
	_, err := l.Run(context.Background(), library(), func(storage.LabelSet) error { return boom }, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink, sets := collect(t)
	l := NewLabeler(task.Linear{})
	_, err := l.Run(ctx, library(), sink, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, sets())
}

func TestRunEmptyLibrary(t *testing.T) {
	sink, _ := collect(t)
	summary, err := NewLabeler(task.Linear{}).Run(context.Background(), nil, sink, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

type taskFunc func(sent.Observation) (*mat.Dense, error)

func (f taskFunc) Name() string { return "func" }

func (f taskFunc) Labels(obs sent.Observation) (*mat.Dense, error) { return f(obs) }

func TestRunSeededRandomIgnoresWorkers(t *testing.T) {
	run := func(workers int) []storage.LabelSet {
		tk, err := task.NewRandom(task.WithSeed(11))
		require.NoError(t, err)

		sink, sets := collect(t)
		_, err = NewLabeler(tk, WithWorkers(workers)).Run(context.Background(), library(), sink, nil)
		require.NoError(t, err)
		return sets()
	}

	serial := run(1)
	parallel := run(8)
	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Key(), parallel[i].Key())
		assert.True(t, mat.Equal(serial[i].Matrix, parallel[i].Matrix), serial[i].Key())
	}

	ls, err := LabelSentence(mustRandom(t, 11), 1, 2, tokens("3", "3", "0"))
	require.NoError(t, err)
	assert.True(t, mat.Equal(serial[4].Matrix, ls.Matrix))
}

func mustRandom(t *testing.T, seed uint64) task.Task {
	t.Helper()
	tk, err := task.NewRandom(task.WithSeed(seed))
	require.NoError(t, err)
	return tk
}
