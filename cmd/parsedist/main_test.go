package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/parsedist/render"
	sent "github.com/revelaction/parsedist/sentence"
	"github.com/revelaction/parsedist/storage/filesystem"
	"github.com/revelaction/parsedist/storage/sqlite/zombiezen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const fixture = `# sent_id = 1
1	The	the	DET	DT	_	2	det	_	_
2	cat	cat	NOUN	NN	_	3	nsubj	_	_
3	sat	sit	VERB	VBD	_	0	root	_	_

# sent_id = 2
1	Hi	hi	INTJ	UH	_	0	root	_	_
2	!	!	PUNCT	.	_	_	punct	_	_

`

func docDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.conllu"), []byte(fixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.conllu"), []byte("1\tGo\tgo\tVERB\tVB\t_\t0\troot\t_\t_\n"), 0644))
	return dir
}

func testUI() (UI, *bytes.Buffer) {
	var out bytes.Buffer
	return UI{Out: &out, Err: &bytes.Buffer{}}, &out
}

func TestParseSentenceArgs(t *testing.T) {
	docId, sentId, err := parseSentenceArgs([]string{"3", "14"})
	require.NoError(t, err)
	assert.Equal(t, 3, docId)
	assert.Equal(t, 14, sentId)

	_, _, err = parseSentenceArgs([]string{"3"})
	assert.Error(t, err)
	_, _, err = parseSentenceArgs([]string{"3", "x"})
	assert.ErrorContains(t, err, "sentId")
	_, _, err = parseSentenceArgs([]string{"-1", "0"})
	assert.ErrorContains(t, err, "docId")
}

func TestParseStatArgs(t *testing.T) {
	docId, sentId, err := parseStatArgs([]string{"2"})
	require.NoError(t, err)
	assert.Equal(t, 2, docId)
	assert.Nil(t, sentId)

	docId, sentId, err = parseStatArgs([]string{"2", "5"})
	require.NoError(t, err)
	assert.Equal(t, 2, docId)
	require.NotNil(t, sentId)
	assert.Equal(t, 5, *sentId)

	_, _, err = parseStatArgs(nil)
	assert.Error(t, err)
}

func TestLsDocCommand(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, out := testUI()
	require.NoError(t, lsDocCommand(repo, ui))
	assert.Equal(t, "📖 0 a.conllu\n📖 1 b.conllu\n", out.String())
}

func TestSentenceCommand(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, out := testUI()
	require.NoError(t, sentenceCommand(repo, 0, 0, ui))
	assert.True(t, strings.HasPrefix(out.String(), "✍  0-0 The cat sat\n\n"))
	assert.Contains(t, out.String(), `"cat"`)
	assert.Contains(t, out.String(), "nsubj")

	err = sentenceCommand(repo, 0, 2, ui)
	assert.ErrorContains(t, err, "out of bounds")
}

func TestLabelsCommandJSON(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, out := testUI()
	opts := LabelsOptions{Task: "parse", Format: FormatJSON}
	require.NoError(t, labelsCommand(repo, opts, 0, 1, ui))

	var got []render.Labels
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "parse", got[0].Task)
	assert.Equal(t, [][]float64{{0, 2}, {2, 0}}, got[0].Data)
}

func TestLabelsCommandText(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, out := testUI()
	opts := LabelsOptions{Task: "linear", Format: FormatText, NoColor: true}
	require.NoError(t, labelsCommand(repo, opts, 0, 0, ui))
	assert.Contains(t, out.String(), "✍  0-0 linear The cat sat")
	assert.Contains(t, out.String(), "The    0    1    2")

	opts.Format = "xml"
	assert.ErrorContains(t, labelsCommand(repo, opts, 0, 0, ui), "unknown format")
}

func TestLabelsCommandSeededRandom(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	seed := uint64(7)
	opts := LabelsOptions{Task: "random", Seed: &seed, Format: FormatJSON}

	ui1, out1 := testUI()
	require.NoError(t, labelsCommand(repo, opts, 0, 0, ui1))
	ui2, out2 := testUI()
	require.NoError(t, labelsCommand(repo, opts, 0, 0, ui2))
	assert.Equal(t, out1.String(), out2.String())
}

func TestStatCommand(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, out := testUI()
	require.NoError(t, statCommand(repo, 0, nil, ui))
	assert.Contains(t, out.String(), "Num sentences 2, num tokens 5, num tokens per sentence 2")
	assert.Contains(t, out.String(), "Placeholder heads 1, malformed sentences 0")
	assert.Contains(t, out.String(), "Max tree distance 2")

	sentId := 4
	assert.ErrorContains(t, statCommand(repo, 0, &sentId, ui), "out of bounds")
}

func TestImportDocAndRun(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs.db")
	labelsPath := filepath.Join(dir, "labels.db")

	p := &Pool{}
	t.Cleanup(func() { p.Close() })

	ui, out := testUI()
	require.NoError(t, importDocCommand(ImportDocOptions{From: docDir(t), To: docs, NoProgress: true}, p, ui))
	assert.Contains(t, out.String(), "Successfully imported 2 docs")

	repo, err := NewDocRepository(p, docs)
	require.NoError(t, err)

	ctx := context.Background()
	labels, err := NewLabelRepository(ctx, p, labelsPath)
	require.NoError(t, err)
	defer labels.Close()

	out.Reset()
	opts := RunOptions{Task: "parse", Workers: 2, NoProgress: true}
	require.NoError(t, runCommand(ctx, repo, labels, opts, zap.NewNop(), ui))
	assert.Contains(t, out.String(), "3 sentences labeled with parse, 0 skipped")

	ls, err := labels.ReadLabels(ctx, 0, 0, "parse")
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
		0, 1, 2,
		1, 0, 1,
		2, 1, 0,
	}), ls.Matrix))

	pool, err := p.Open(labelsPath)
	require.NoError(t, err)
	n, err := zombiezen.NewLabelStore(pool).Count(ctx, "parse")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunUnknownTask(t *testing.T) {
	repo, err := filesystem.NewDocStore(docDir(t))
	require.NoError(t, err)

	ui, _ := testUI()
	err = runCommand(context.Background(), repo, nil, RunOptions{Task: "bogus", NoProgress: true}, zap.NewNop(), ui)
	assert.ErrorContains(t, err, "unknown task")
}

func TestNewDocRepositoryMissing(t *testing.T) {
	_, err := NewDocRepository(&Pool{}, filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "repository not found")
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost:5432/labels"))
	assert.True(t, isPostgres("postgresql://localhost/labels"))
	assert.False(t, isPostgres("labels.db"))
}

func TestGetCompletions(t *testing.T) {
	commands := []string{"ls-doc", "labels", "run", "stat"}

	assert.Equal(t, []string{"ls-doc", "labels"}, getCompletions(commands, []string{"parsedist", "l"}))
	assert.Equal(t, []string{"random"}, getCompletions(commands, []string{"parsedist", "run", "--task", "r"}))
	assert.Nil(t, getCompletions(commands, []string{"parsedist", "run", "x"}))
	assert.Nil(t, getCompletions(commands, nil))
}

func TestCommandNamesSkipsHidden(t *testing.T) {
	ui, _ := testUI()
	names := commandNames(newApp(ui))
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "explore")
	assert.NotContains(t, names, "complete")
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestAppVersion(t *testing.T) {
	ui, out := testUI()
	require.NoError(t, newApp(ui).Run([]string{"parsedist", "version"}))
	assert.Equal(t, "parsedist version dev (commit: none)\n", out.String())
}

func TestAppLsDoc(t *testing.T) {
	ui, out := testUI()
	require.NoError(t, newApp(ui).Run([]string{"parsedist", "-d", docDir(t), "ls-doc"}))
	assert.Contains(t, out.String(), "📖 1 b.conllu")
}

func TestAppLabelsRequiresIds(t *testing.T) {
	ui, _ := testUI()
	err := newApp(ui).Run([]string{"parsedist", "-d", docDir(t), "labels", "0"})
	assert.ErrorContains(t, err, "requires <docId> <sentId>")
}

func TestExportDocRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs.db")
	out := filepath.Join(dir, "json")

	p := &Pool{}
	t.Cleanup(func() { p.Close() })

	ui, buf := testUI()
	src := docDir(t)
	require.NoError(t, importDocCommand(ImportDocOptions{From: src, To: docs, NoProgress: true}, p, ui))
	require.NoError(t, exportDocCommand(ExportDocOptions{From: docs, To: out, NoProgress: true}, p, ui))
	assert.Contains(t, buf.String(), "Successfully exported 2 docs")

	assert.FileExists(t, filepath.Join(out, "a.json"))

	exported, err := filesystem.NewDocStore(out)
	require.NoError(t, err)
	original, err := filesystem.NewDocStore(src)
	require.NoError(t, err)

	got, err := exported.Read(0)
	require.NoError(t, err)
	want, err := original.Read(0)
	require.NoError(t, err)
	assert.Equal(t, want.Tokens, got.Tokens)
}

func TestJsonName(t *testing.T) {
	assert.Equal(t, "en_ewt.json", jsonName("en_ewt.conllu"))
	assert.Equal(t, "doc.json", jsonName("doc.json"))
	assert.Equal(t, "plain.json", jsonName("plain"))
}

type labeledRepo []sent.Doc

func (r labeledRepo) List() ([]sent.Doc, error) { return r, nil }

func (r labeledRepo) Read(id int) (sent.Doc, error) { return r[id], nil }

func TestLsLabelsCommand(t *testing.T) {
	repo := labeledRepo{
		{Id: 0, Labels: []string{"lang:en", "ud"}},
		{Id: 1, Labels: []string{"lang:es", "ud"}},
	}

	ui, out := testUI()
	require.NoError(t, lsLabelsCommand(repo, "", ui))
	assert.Equal(t, "lang:en, lang:es, ud\n", out.String())

	out.Reset()
	require.NoError(t, lsLabelsCommand(repo, "lang", ui))
	assert.Equal(t, "lang:en, lang:es\n", out.String())

	out.Reset()
	require.NoError(t, lsLabelsCommand(repo, "nope", ui))
	assert.Empty(t, out.String())
}
