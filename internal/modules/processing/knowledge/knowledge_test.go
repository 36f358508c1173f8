package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeCorpusFile(t, `{
		"chunk_count": 1,
		"df": {"threats": 1},
		"chunks": [{"source": "handbook", "title": "escalation", "text": "threats", "tf": {"threats": 1}}]
	}`)

	corpus, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.ChunkCount)
	assert.Equal(t, 1, corpus.DF["threats"])
	require.Len(t, corpus.Chunks, 1)
	assert.Equal(t, "handbook", corpus.Chunks[0].Source)
}

func TestLoadRecoversMissingDerivedFields(t *testing.T) {
	path := writeCorpusFile(t, `{
		"chunks": [
			{"source": "handbook", "title": "one", "text": "community norms matter"},
			{"source": "handbook", "title": "two", "text": "norms and escalation"}
		]
	}`)

	corpus, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, corpus.ChunkCount)
	assert.Equal(t, 2, corpus.DF["norms"])
	assert.Equal(t, 1, corpus.DF["escalation"])
	assert.Equal(t, 1, corpus.Chunks[0].TF["community"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeCorpusFile(t, "{not json")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestServiceMemoizesLoad(t *testing.T) {
	path := writeCorpusFile(t, `{"chunks": [{"source": "s", "title": "t", "text": "stable corpus text"}]}`)

	svc := NewService(path)
	first, err := svc.Corpus()
	require.NoError(t, err)

	// Changing the file after the first load must not change the cached corpus.
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	second, err := svc.Corpus()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
