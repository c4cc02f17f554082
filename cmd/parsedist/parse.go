package main

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Option structs for subcommands that have flags
type LabelsOptions struct {
	Task      string
	Seed      *uint64 // nil = not set
	Format    string
	Precision int
	NoColor   bool
}

type RunOptions struct {
	Task          string
	Seed          *uint64 // nil = not set
	Workers       int
	SkipMalformed bool
	MetricsAddr   string
	NoProgress    bool
}

type ImportDocOptions struct {
	From       string
	To         string
	NoProgress bool
}

type ExploreOptions struct {
	Task    string
	NoColor bool
}

func parseSentenceArgs(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("requires <docId> <sentId>")
	}

	docId, err := parseId("docId", args[0])
	if err != nil {
		return 0, 0, err
	}

	sentId, err := parseId("sentId", args[1])
	if err != nil {
		return 0, 0, err
	}

	return docId, sentId, nil
}

func parseStatArgs(args []string) (int, *int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, nil, errors.New("requires <docId> [sentId]")
	}

	docId, err := parseId("docId", args[0])
	if err != nil {
		return 0, nil, err
	}

	if len(args) == 1 {
		return docId, nil, nil
	}

	sentId, err := parseId("sentId", args[1])
	if err != nil {
		return 0, nil, err
	}

	return docId, &sentId, nil
}

func parseId(name, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%s must be a non negative integer, got %q", name, arg)
	}
	return id, nil
}
