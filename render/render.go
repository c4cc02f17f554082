package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	sent "github.com/revelaction/parsedist/sentence"
	"gonum.org/v1/gonum/mat"
)

const DefaultPrecision = 3

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

type Renderer struct {
	HasColor bool

	// Precision is the number of decimals of non integral matrices.
	Precision int

	W io.Writer
}

func NewRenderer() *Renderer {
	return &Renderer{Precision: DefaultPrecision, W: os.Stdout}
}

// ToggleColor switches colored output on and off
func (r *Renderer) ToggleColor() {
	r.HasColor = !r.HasColor
}

// Matrix prints m as an aligned table. Rows and columns are headed by the
// token forms of the sentence.
//
//	     The  cat  sat
//	The    0    1    2
//	cat    1    0    1
//	sat    2    1    0
func (r *Renderer) Matrix(tokens []sent.Token, m mat.Matrix) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		fmt.Fprintln(r.W, "∅")
		return
	}

	headers := Headers(tokens, max(rows, cols))
	cells := r.cells(m)

	headerWidth := 0
	for _, h := range headers[:rows] {
		headerWidth = max(headerWidth, utf8.RuneCountInString(h))
	}

	width := 0
	for _, h := range headers[:cols] {
		width = max(width, utf8.RuneCountInString(h))
	}
	for _, row := range cells {
		for _, c := range row {
			width = max(width, len(c))
		}
	}

	var str strings.Builder
	str.WriteString(strings.Repeat(" ", headerWidth))
	for j := 0; j < cols; j++ {
		str.WriteString("  ")
		str.WriteString(r.color(Yellow256, padLeft(headers[j], width)))
	}
	fmt.Fprintln(r.W, str.String())

	for i, row := range cells {
		str.Reset()
		str.WriteString(r.color(Yellow256, padRight(headers[i], headerWidth)))
		for j, c := range row {
			str.WriteString("  ")
			if i == j {
				str.WriteString(r.color(Grey256, padLeft(c, width)))
				continue
			}
			str.WriteString(padLeft(c, width))
		}
		fmt.Fprintln(r.W, str.String())
	}
}

// Sentence prints the text of the sentence after prefix.
func (r *Renderer) Sentence(tokens []sent.Token, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, r.SentenceString(tokens))
}

// SentenceString joins the token forms of the sentence with spaces.
func (r *Renderer) SentenceString(tokens []sent.Token) string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		text := t.Text
		if r.HasColor && t.Head == "0" {
			text = Green256 + text + Off
		}
		words = append(words, text)
	}
	return strings.ReplaceAll(strings.Join(words, " "), "\n", " ")
}

// Tokens prints one line per token with its annotation columns.
func (r *Renderer) Tokens(tokens []sent.Token) {
	for _, token := range tokens {
		fmt.Fprintf(r.W, "%6s %20q %15q %8s %6s %8s %s\n", token.Id, token.Text, token.Lemma, token.Pos, token.Head, token.Dep, token.Feats)
	}
}

// Headers returns n row and column headers for tokens, the token form when
// present and the position otherwise.
func Headers(tokens []sent.Token, n int) []string {
	headers := make([]string, n)
	for i := range headers {
		if i < len(tokens) && tokens[i].Text != "" {
			headers[i] = tokens[i].Text
			continue
		}
		headers[i] = strconv.Itoa(i)
	}
	return headers
}

func (r *Renderer) cells(m mat.Matrix) [][]string {
	rows, cols := m.Dims()

	integral := true
	for i := 0; i < rows && integral; i++ {
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); v != math.Trunc(v) {
				integral = false
				break
			}
		}
	}

	prec := r.Precision
	if integral {
		prec = 0
	}

	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
		for j := range cells[i] {
			cells[i][j] = strconv.FormatFloat(m.At(i, j), 'f', prec, 64)
		}
	}
	return cells
}

func (r *Renderer) color(c, s string) string {
	if !r.HasColor {
		return s
	}
	return c + s + Off
}

func padLeft(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

func padRight(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
