// Package batch computes label matrices for every sentence of a library
// with a bounded pool of workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/revelaction/parsedist/metrics"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
	"github.com/revelaction/parsedist/task"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sink receives computed label sets. Calls to a Sink are serialized.
type Sink func(storage.LabelSet) error

// Summary counts the sentences of a run.
type Summary struct {
	Labeled int
	Skipped int
}

type Labeler struct {
	Task task.Task

	// Workers is the number of sentences labeled at the same time.
	// Zero means runtime.NumCPU().
	Workers int

	// SkipMalformed skips sentences whose head annotation is not a tree
	// instead of failing the run.
	SkipMalformed bool

	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Option configures a Labeler.
type Option func(*Labeler)

func WithWorkers(n int) Option {
	return func(l *Labeler) { l.Workers = n }
}

func WithSkipMalformed(skip bool) Option {
	return func(l *Labeler) { l.SkipMalformed = skip }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Labeler) { l.Metrics = m }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Labeler) { l.Logger = logger }
}

func NewLabeler(tk task.Task, opts ...Option) *Labeler {
	l := &Labeler{Task: tk}
	for _, opt := range opts {
		opt(l)
	}

	if l.Workers <= 0 {
		l.Workers = runtime.NumCPU()
	}
	if l.Logger == nil {
		l.Logger = zap.NewNop()
	}
	if l.Metrics == nil {
		l.Metrics = metrics.New(nil)
	}
	return l
}

// LabelSentence computes the label set of one sentence. A task.SentenceTask
// is first narrowed to the sentence.
func LabelSentence(tk task.Task, docId, sentId int, tokens []sent.Token) (storage.LabelSet, error) {
	if st, ok := tk.(task.SentenceTask); ok {
		tk = st.For(docId, sentId)
	}

	m, err := tk.Labels(sent.NewObservation(tokens))
	if err != nil {
		return storage.LabelSet{}, fmt.Errorf("doc %d sentence %d: %w", docId, sentId, err)
	}

	return storage.LabelSet{
		DocId:  docId,
		SentId: sentId,
		Task:   tk.Name(),
		Matrix: m,
	}, nil
}

// Run labels every sentence of lib, passing each label set to sink and
// calling progress once per sentence. The first error stops the run.
func (l *Labeler) Run(ctx context.Context, lib sent.Library, sink Sink, progress func()) (Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Workers)

	var mu sync.Mutex
	var summary Summary
	name := l.Task.Name()

	l.Logger.Info("labeling started",
		zap.String("task", name),
		zap.Int("docs", len(lib)),
		zap.Int("sentences", lib.NumSentences()),
		zap.Int("workers", l.Workers))

loop:
	for _, doc := range lib {
		for sentId, tokens := range doc.Tokens {
			if gctx.Err() != nil {
				break loop
			}

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				start := time.Now()
				ls, err := LabelSentence(l.Task, doc.Id, sentId, tokens)
				if err != nil {
					return l.fail(err, doc.Id, sentId, &mu, &summary, progress)
				}
				l.Metrics.Observe(name, len(tokens), time.Since(start))

				mu.Lock()
				defer mu.Unlock()

				if err := sink(ls); err != nil {
					return fmt.Errorf("failed to store labels %s: %w", ls.Key(), err)
				}
				summary.Labeled++
				if progress != nil {
					progress()
				}
				return nil
			})
		}
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		l.Logger.Error("labeling failed", zap.String("task", name), zap.Error(err))
		return summary, err
	}

	l.Logger.Info("labeling finished",
		zap.String("task", name),
		zap.Int("labeled", summary.Labeled),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func (l *Labeler) fail(err error, docId, sentId int, mu *sync.Mutex, summary *Summary, progress func()) error {
	kind := task.Classify(err)
	l.Metrics.Fail(l.Task.Name(), kind)

	if !l.SkipMalformed || !isAnnotationError(err) {
		return err
	}

	l.Logger.Warn("sentence skipped",
		zap.Int("doc", docId),
		zap.Int("sentence", sentId),
		zap.String("kind", kind),
		zap.Error(err))

	mu.Lock()
	defer mu.Unlock()
	summary.Skipped++
	if progress != nil {
		progress()
	}
	return nil
}

func isAnnotationError(err error) bool {
	return errors.Is(err, task.ErrMalformedAnnotation) || errors.Is(err, task.ErrInvalidHead)
}
