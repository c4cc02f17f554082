// Package explore implements an interactive prompt to inspect the label
// matrices of single sentences.
package explore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/revelaction/parsedist/render"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage"
	"github.com/revelaction/parsedist/task"
)

const (
	// taskPrefix is the character in the prompt that prefixes a task name
	taskPrefix = "/"

	quit = "quit"
)

var ErrUsage = errors.New("usage: <docId> <sentId> or /<task>")

type Handler struct {
	DocRepo  storage.DocReader
	Task     task.Task
	Renderer *render.Renderer
}

func NewHandler(dr storage.DocReader, tk task.Task, r *render.Renderer) *Handler {
	return &Handler{
		DocRepo:  dr,
		Task:     tk,
		Renderer: r,
	}
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Renderer.W, "🔑 Ctrl+F: Toggle color, /<task>: switch task, 🔧 quit")

	docs, err := h.DocRepo.List()
	if err != nil {
		return err
	}

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input(fmt.Sprintf("%8s 🔖 ", h.Task.Name()), h.completer(docs),
			prompt.OptionTitle("parsedist explore"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.ToggleColor()
					fmt.Fprintf(h.Renderer.W, "Color set to %t\n", h.Renderer.HasColor)
				}}),
		)

		if strings.TrimSpace(in) == quit {
			return nil
		}

		history = append(history, in)
		if err := h.Eval(in); err != nil {
			fmt.Fprintf(h.Renderer.W, "❌ %v\n", err)
		}
	}
}

// Eval executes one line of input: a task switch or a sentence to label.
func (h *Handler) Eval(in string) error {
	fields := strings.Fields(in)
	if len(fields) == 0 {
		return nil
	}

	if strings.HasPrefix(fields[0], taskPrefix) {
		tk, err := task.New(strings.TrimPrefix(fields[0], taskPrefix))
		if err != nil {
			return err
		}
		h.Task = tk
		fmt.Fprintf(h.Renderer.W, "🔧 task set to %s\n", tk.Name())
		return nil
	}

	docId, sentId, err := parseIds(fields)
	if err != nil {
		return err
	}

	tokens, err := h.sentence(docId, sentId)
	if err != nil {
		return err
	}

	m, err := h.Task.Labels(sent.NewObservation(tokens))
	if err != nil {
		return err
	}

	h.Renderer.Sentence(tokens, fmt.Sprintf("✍  %d-%d ", docId, sentId))
	h.Renderer.Matrix(tokens, m)
	return nil
}

func (h *Handler) sentence(docId, sentId int) ([]sent.Token, error) {
	doc, err := h.DocRepo.Read(docId)
	if err != nil {
		return nil, err
	}

	if sentId < 0 || sentId >= len(doc.Tokens) {
		return nil, fmt.Errorf("sentence index %d out of bounds (doc has %d sentences)", sentId, len(doc.Tokens))
	}

	return doc.Tokens[sentId], nil
}

func parseIds(fields []string) (int, int, error) {
	if len(fields) != 2 {
		return 0, 0, ErrUsage
	}

	docId, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid doc id %q: %w", fields[0], ErrUsage)
	}

	sentId, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sentence id %q: %w", fields[1], ErrUsage)
	}

	return docId, sentId, nil
}

func (h *Handler) completer(docs []sent.Doc) func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return suggest(in.TextBeforeCursor(), docs)
	}
}

// suggest completes task names after the task prefix and doc ids as the
// first word.
func suggest(befCursor string, docs []sent.Doc) []prompt.Suggest {
	s := []prompt.Suggest{}

	// Only one character in line
	if befCursor == "" {
		return s
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) != 1 {
		return s
	}

	token := tokens[0]
	if strings.HasPrefix(token, taskPrefix) {
		for _, name := range task.Names() {
			if strings.HasPrefix(taskPrefix+name, token) {
				s = append(s, prompt.Suggest{Text: taskPrefix + name, Description: "🔧 task"})
			}
		}
		return s
	}

	for _, doc := range docs {
		id := strconv.Itoa(doc.Id)
		if strings.HasPrefix(id, token) {
			s = append(s, prompt.Suggest{Text: id, Description: "📖 " + doc.Title})
		}
	}

	return s
}
