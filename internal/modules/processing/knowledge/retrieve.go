package knowledge

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// tokenPattern matches runs of Unicode letters and digits, so umlauts and
// other non-ASCII letters survive tokenization.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

const minTokenLength = 3

// Scored pairs a corpus chunk with its relevance score for one query.
type Scored struct {
	Chunk *Chunk
	Score float64
}

// Tokenize lowercases text and splits it into alphanumeric tokens of at
// least three runes.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, token := range raw {
		if utf8.RuneCountInString(token) >= minTokenLength {
			out = append(out, token)
		}
	}
	return out
}

func termFrequencies(text string) map[string]int {
	tf := make(map[string]int)
	for _, token := range Tokenize(text) {
		tf[token]++
	}
	return tf
}

// Retrieve scores every chunk against the query and returns the topK best,
// sorted by descending score with ties kept in corpus order. A topK of 0
// disables retrieval; no token overlap yields an empty result. Both are
// normal outcomes, not errors.
func Retrieve(query string, corpus *Corpus, topK int) []Scored {
	if topK <= 0 || corpus == nil || len(corpus.Chunks) == 0 {
		return nil
	}

	queryTF := termFrequencies(query)
	if len(queryTF) == 0 {
		return nil
	}

	n := float64(len(corpus.Chunks))
	idf := func(token string) float64 {
		df := float64(corpus.DF[token])
		return math.Log((n+1)/(df+1)) + 1
	}

	scored := make([]Scored, 0, len(corpus.Chunks))
	for i := range corpus.Chunks {
		chunk := &corpus.Chunks[i]
		var score float64
		for token, qCount := range queryTF {
			cCount, ok := chunk.TF[token]
			if !ok {
				continue
			}
			weight := idf(token)
			score += float64(qCount) * weight * float64(cCount) * weight
		}
		if score > 0 {
			scored = append(scored, Scored{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
