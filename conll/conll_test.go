package conll

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# sent_id = 1
# text = The cat sleeps.
1	The	the	DET	DT	Definite=Def	2	det	_	_
2	cat	cat	NOUN	NN	Number=Sing	3	nsubj	_	_
3	sleeps	sleep	VERB	VBZ	_	0	root	_	SpaceAfter=No
4	.	.	PUNCT	.	_	3	punct	_	_

# sent_id = 2
1-2	don't	_	_	_	_	_	_	_	_
1	do	do	AUX	VBP	_	3	aux	_	_
2	n't	not	PART	RB	_	3	advmod	_	_
3	go	go	VERB	VB	_	0	root	_	_
3.1	went	go	VERB	VBD	_	_	_	3:conj	_
4	x	x	X	X	_	_	_	_	_
`

func TestRead(t *testing.T) {
	sentences, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	first := sentences[0]
	require.Len(t, first, 4)
	assert.Equal(t, "1", first[0].Id)
	assert.Equal(t, "The", first[0].Text)
	assert.Equal(t, "the", first[0].Lemma)
	assert.Equal(t, "DET", first[0].Pos)
	assert.Equal(t, "DT", first[0].Tag)
	assert.Equal(t, "Definite=Def", first[0].Feats)
	assert.Equal(t, "2", first[0].Head)
	assert.Equal(t, "det", first[0].Dep)
	assert.Equal(t, "SpaceAfter=No", first[2].Misc)
	assert.Equal(t, 3, first[3].Index)

	// the range and the empty node are skipped, the placeholder head is kept
	second := sentences[1]
	require.Len(t, second, 4)
	assert.Equal(t, []string{"do", "n't", "go", "x"}, []string{second[0].Text, second[1].Text, second[2].Text, second[3].Text})
	assert.Equal(t, "_", second[3].Head)
	assert.Equal(t, 3, second[3].Index)
}

func TestReadObservations(t *testing.T) {
	obs, err := ReadObservations(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, []string{"2", "3", "0", "3"}, obs[0].HeadIndices)
	assert.Equal(t, 4, obs[1].Len())
	assert.NoError(t, obs[1].Validate())
}

func TestReadNoTrailingBlankLine(t *testing.T) {
	in := "1\ta\ta\tX\tX\t_\t0\troot\t_\t_"
	sentences, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sentences, 1)
}

func TestReadBlankLinesOnly(t *testing.T) {
	sentences, err := Read(strings.NewReader("\n\n# only a comment\n\n"))
	require.NoError(t, err)
	assert.Empty(t, sentences)
}

func TestReadCRLF(t *testing.T) {
	in := "1\ta\ta\tX\tX\t_\t0\troot\t_\t_\r\n\r\n1\tb\tb\tX\tX\t_\t0\troot\t_\t_\r\n"
	sentences, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, "_", sentences[0][0].Misc)
}

func TestReadFieldCount(t *testing.T) {
	in := "1\ta\ta\tX\tX\t_\t0\troot\t_\t_\n2\tb\tb\tX\n"
	_, err := Read(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en_test.conllu")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "en_test.conllu", doc.Title)
	assert.Len(t, doc.Tokens, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.conllu"))
	require.Error(t, err)
}

func TestIsConllFile(t *testing.T) {
	assert.True(t, IsConllFile("a.conllu"))
	assert.True(t, IsConllFile("dir/b.conll"))
	assert.False(t, IsConllFile("c.json"))
	assert.False(t, IsConllFile("conllu"))
}
