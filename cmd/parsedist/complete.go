package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/parsedist/task"
	"github.com/urfave/cli/v2"
)

// completeCommand handles the autocompletion requests triggered by the bash completion script.
func completeCommand(app *cli.App, args []string, ui UI) error {
	completions := getCompletions(commandNames(app), args)
	for _, c := range completions {
		_, _ = fmt.Fprintln(ui.Out, c)
	}
	return nil
}

func commandNames(app *cli.App) []string {
	var names []string
	for _, c := range app.Commands {
		if c.Hidden {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

func getCompletions(commands []string, args []string) []string {
	if len(args) < 1 {
		return nil
	}

	// args[0] is "parsedist" (binary name from COMP_WORDS[0])
	commandIndex := 1
	cursorIndex := len(args) - 1
	lastWord := args[cursorIndex]

	if cursorIndex == commandIndex {
		// User is typing the command itself
		return withPrefix(commands, lastWord)
	}

	// task flag values
	if cursorIndex > commandIndex {
		previous := args[cursorIndex-1]
		if previous == "-task" || previous == "--task" || previous == "-t" {
			return withPrefix(task.Names(), lastWord)
		}
	}

	return nil
}

func withPrefix(words []string, prefix string) []string {
	var completions []string
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			completions = append(completions, w)
		}
	}
	return completions
}
