package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and drops short tokens",
			in:   "The Mod is on it",
			want: []string{"the", "mod"},
		},
		{
			name: "keeps umlauts",
			in:   "Drohung äußern Gruppenregeln",
			want: []string{"drohung", "äußern", "gruppenregeln"},
		},
		{
			name: "splits on punctuation",
			in:   "rules,norms;and-tone!",
			want: []string{"rules", "norms", "and", "tone"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func testCorpus(texts ...string) *Corpus {
	corpus := &Corpus{
		ChunkCount: len(texts),
		DF:         make(map[string]int),
		Chunks:     make([]Chunk, 0, len(texts)),
	}
	for i, text := range texts {
		tf := termFrequencies(text)
		for token := range tf {
			corpus.DF[token]++
		}
		corpus.Chunks = append(corpus.Chunks, Chunk{
			Source: "handbook",
			Title:  string(rune('a' + i)),
			Text:   text,
			TF:     tf,
		})
	}
	return corpus
}

func TestRetrieveOrdersByScore(t *testing.T) {
	corpus := testCorpus(
		"threats against moderators violate the rules",
		"feedback about the newsletter schedule",
		"threats threats threats everywhere in this passage about threats",
	)

	got := Retrieve("how to handle threats", corpus, 10)
	require.Len(t, got, 2)

	// The chunk with more matching occurrences scores higher.
	assert.Equal(t, "c", got[0].Chunk.Title)
	assert.Equal(t, "a", got[1].Chunk.Title)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRetrieveStableTies(t *testing.T) {
	corpus := testCorpus(
		"escalation policy for comments",
		"escalation policy for comments",
		"escalation policy for comments",
	)

	got := Retrieve("escalation policy", corpus, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Chunk.Title)
	assert.Equal(t, "b", got[1].Chunk.Title)
	assert.Equal(t, "c", got[2].Chunk.Title)
}

func TestRetrieveTopKBounds(t *testing.T) {
	corpus := testCorpus(
		"community norms and tone",
		"community norms and tone again",
		"community norms and tone once more",
	)

	assert.Len(t, Retrieve("community norms", corpus, 2), 2)
	assert.Nil(t, Retrieve("community norms", corpus, 0))
	assert.Nil(t, Retrieve("community norms", nil, 4))
}

func TestRetrieveNoOverlap(t *testing.T) {
	corpus := testCorpus("moderation handbook passage")

	assert.Empty(t, Retrieve("zzz qqq", corpus, 4))
	assert.Empty(t, Retrieve("!!! ??", corpus, 4))
}
