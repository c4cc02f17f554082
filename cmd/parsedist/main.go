package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/revelaction/parsedist/storage"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(ui).RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "parsedist: %v\n", err)
}

// env is the state shared by the commands of one invocation.
type env struct {
	ui     UI
	logger *zap.Logger
	pool   *Pool
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui, logger: zap.NewNop(), pool: &Pool{}}

	return &cli.App{
		Name:            "parsedist",
		Usage:           "pairwise distance labels for dependency parsed sentences",
		Writer:          ui.Out,
		ErrWriter:       ui.Err,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "doc-path",
				Aliases: []string{"d"},
				Value:   ".",
				Usage:   "docs directory or SQLite file",
				EnvVars: []string{"PARSEDIST_DOC_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"PARSEDIST_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "log as JSON lines",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "do not show progress bars",
			},
		},
		Before: e.before,
		After:  e.after,
		Commands: []*cli.Command{
			{
				Name:   "ls-doc",
				Usage:  "list the docs of the repository",
				Action: e.lsDoc,
			},
			{
				Name:      "ls-labels",
				Usage:     "list the doc labels of the repository",
				ArgsUsage: "[match]",
				Action:    e.lsLabels,
			},
			{
				Name:      "sentence",
				Usage:     "print the tokens of a sentence",
				ArgsUsage: "<docId> <sentId>",
				Action:    e.sentence,
			},
			{
				Name:      "labels",
				Usage:     "print the label matrix of a sentence",
				ArgsUsage: "<docId> <sentId>",
				Flags: []cli.Flag{
					taskFlag(),
					seedFlag(),
					&cli.StringFlag{
						Name:  "format",
						Value: FormatText,
						Usage: "text or json",
					},
					&cli.IntFlag{
						Name:  "precision",
						Value: 3,
						Usage: "decimals of non integral matrices",
					},
					&cli.BoolFlag{
						Name:  "no-color",
						Usage: "plain text output",
					},
				},
				Action: e.labels,
			},
			{
				Name:  "run",
				Usage: "label every sentence of the repository",
				Flags: []cli.Flag{
					taskFlag(),
					seedFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "sentences labeled in parallel (default: number of CPUs)",
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "label store: SQLite file or postgres:// URL",
						EnvVars:  []string{"PARSEDIST_LABEL_DSN"},
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "skip-malformed",
						Usage: "skip sentences whose heads do not form a tree",
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "serve Prometheus metrics on this address during the run",
					},
				},
				Action: e.run,
			},
			{
				Name:      "stat",
				Usage:     "print statistics of a doc or a sentence",
				ArgsUsage: "<docId> [sentId]",
				Action:    e.stat,
			},
			{
				Name:  "import-doc",
				Usage: "copy the docs of a directory into a SQLite file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "docs directory"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "SQLite file"},
				},
				Action: e.importDoc,
			},
			{
				Name:  "export-doc",
				Usage: "write the docs of a SQLite file as JSON into a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "SQLite file"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "docs directory"},
				},
				Action: e.exportDoc,
			},
			{
				Name:  "explore",
				Usage: "interactive prompt to inspect label matrices",
				Flags: []cli.Flag{
					taskFlag(),
					&cli.BoolFlag{Name: "no-color", Usage: "plain text output"},
				},
				Action: e.explore,
			},
			{
				Name:   "version",
				Usage:  "print the version",
				Action: func(*cli.Context) error { return versionCommand(ui) },
			},
			{
				Name:   "bash",
				Usage:  "print the bash completion script",
				Action: func(*cli.Context) error { return bashCommand(ui) },
			},
			{
				Name:   "complete",
				Hidden: true,
				Action: func(c *cli.Context) error { return completeCommand(c.App, c.Args().Slice(), ui) },
			},
		},
	}
}

func taskFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "task",
		Aliases: []string{"t"},
		Value:   "parse",
		Usage:   "linear, random or parse",
		EnvVars: []string{"PARSEDIST_TASK"},
	}
}

func seedFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the random task",
	}
}

func (e *env) before(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"), c.Bool("log-json"))
	if err != nil {
		return err
	}
	e.logger = logger
	return nil
}

func (e *env) after(c *cli.Context) error {
	_ = e.logger.Sync()
	return e.pool.Close()
}

func (e *env) docRepo(c *cli.Context) (storage.DocRepository, error) {
	return NewDocRepository(e.pool, c.String("doc-path"))
}

func (e *env) lsDoc(c *cli.Context) error {
	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return lsDocCommand(repo, e.ui)
}

func (e *env) lsLabels(c *cli.Context) error {
	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return lsLabelsCommand(repo, c.Args().First(), e.ui)
}

func (e *env) sentence(c *cli.Context) error {
	docId, sentId, err := parseSentenceArgs(c.Args().Slice())
	if err != nil {
		return err
	}

	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return sentenceCommand(repo, docId, sentId, e.ui)
}

func (e *env) labels(c *cli.Context) error {
	docId, sentId, err := parseSentenceArgs(c.Args().Slice())
	if err != nil {
		return err
	}

	opts := LabelsOptions{
		Task:      c.String("task"),
		Seed:      optionalSeed(c),
		Format:    c.String("format"),
		Precision: c.Int("precision"),
		NoColor:   c.Bool("no-color"),
	}

	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return labelsCommand(repo, opts, docId, sentId, e.ui)
}

func (e *env) run(c *cli.Context) error {
	opts := RunOptions{
		Task:          c.String("task"),
		Seed:          optionalSeed(c),
		Workers:       c.Int("workers"),
		SkipMalformed: c.Bool("skip-malformed"),
		MetricsAddr:   c.String("metrics-addr"),
		NoProgress:    c.Bool("no-progress"),
	}

	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}

	labels, err := NewLabelRepository(c.Context, e.pool, c.String("to"))
	if err != nil {
		return err
	}
	defer labels.Close()

	logger := e.logger.With(zap.String("run_id", uuid.NewString()))
	return runCommand(c.Context, repo, labels, opts, logger, e.ui)
}

func (e *env) stat(c *cli.Context) error {
	docId, sentId, err := parseStatArgs(c.Args().Slice())
	if err != nil {
		return err
	}

	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return statCommand(repo, docId, sentId, e.ui)
}

func (e *env) importDoc(c *cli.Context) error {
	opts := ImportDocOptions{
		From:       c.String("from"),
		To:         c.String("to"),
		NoProgress: c.Bool("no-progress"),
	}
	return importDocCommand(opts, e.pool, e.ui)
}

func (e *env) exportDoc(c *cli.Context) error {
	opts := ExportDocOptions{
		From:       c.String("from"),
		To:         c.String("to"),
		NoProgress: c.Bool("no-progress"),
	}
	return exportDocCommand(opts, e.pool, e.ui)
}

func (e *env) explore(c *cli.Context) error {
	opts := ExploreOptions{
		Task:    c.String("task"),
		NoColor: c.Bool("no-color"),
	}

	repo, err := e.docRepo(c)
	if err != nil {
		return err
	}
	return exploreCommand(repo, opts, e.ui)
}

func optionalSeed(c *cli.Context) *uint64 {
	if !c.IsSet("seed") {
		return nil
	}
	seed := c.Uint64("seed")
	return &seed
}
