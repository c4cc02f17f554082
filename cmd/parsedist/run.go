package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/revelaction/parsedist/batch"
	"github.com/revelaction/parsedist/metrics"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
	"go.uber.org/zap"
)

func runCommand(ctx context.Context, repo storage.DocReader, labels storage.LabelWriter, opts RunOptions, logger *zap.Logger, ui UI) error {
	tk, err := newTask(opts.Task, opts.Seed)
	if err != nil {
		return err
	}

	lib, err := docLibrary(repo, opts.NoProgress, ui)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if opts.MetricsAddr != "" {
		srv := serveMetrics(opts.MetricsAddr, metrics.Handler(reg), logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	labeler := batch.NewLabeler(tk,
		batch.WithWorkers(opts.Workers),
		batch.WithSkipMalformed(opts.SkipMalformed),
		batch.WithMetrics(m),
		batch.WithLogger(logger))

	sink := func(ls storage.LabelSet) error {
		return labels.WriteLabels(ctx, ls)
	}

	progress := func() {}
	if total := lib.NumSentences(); !opts.NoProgress && total > 0 {
		p := uiprogress.New()
		p.SetOut(ui.Err)
		bar := p.AddBar(total)
		bar.AppendCompleted()
		bar.PrependElapsed()
		p.Start()
		defer p.Stop()

		progress = func() { bar.Incr() }
	}

	summary, err := labeler.Run(ctx, lib, sink, progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "✅ %d sentences labeled with %s, %d skipped\n", summary.Labeled, tk.Name(), summary.Skipped)
	return nil
}

// docLibrary reads all docs of the repository.
func docLibrary(repo storage.DocReader, noProgress bool, ui UI) (sent.Library, error) {
	docs, err := repo.List()
	if err != nil {
		return nil, err
	}

	var bar *uiprogress.Bar
	if !noProgress && len(docs) > 0 {
		p := uiprogress.New()
		p.SetOut(ui.Err)
		bar = p.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		// Append Doc name to the progress bar
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			if b.Current() == 0 {
				return ""
			}
			return docs[b.Current()-1].Title
		})
		p.Start()
		defer p.Stop()
	}

	library := make(sent.Library, 0, len(docs))
	for _, meta := range docs {
		doc, err := repo.Read(meta.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to read doc %s: %w", meta.Title, err)
		}

		library = append(library, doc)

		if bar != nil {
			bar.Incr()
		}
	}

	return library, nil
}

func serveMetrics(addr string, h http.Handler, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return srv
}
