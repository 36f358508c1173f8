package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Chunk is one passage of the static reference corpus, pre-tokenized by the
// offline ingestion tool. Chunks are immutable after load and shared
// read-only across requests.
type Chunk struct {
	Source string         `json:"source"`
	Title  string         `json:"title"`
	Text   string         `json:"text"`
	TF     map[string]int `json:"tf"`
}

// Corpus is the loaded knowledge base with its document-frequency table.
type Corpus struct {
	ChunkCount int            `json:"chunk_count"`
	DF         map[string]int `json:"df"`
	Chunks     []Chunk        `json:"chunks"`
}

// Service loads the corpus file at most once per process lifetime.
type Service struct {
	path   string
	once   sync.Once
	corpus *Corpus
	err    error
}

func NewService(path string) *Service {
	return &Service{path: path}
}

// Corpus returns the cached corpus, loading it on first use. The load result
// (including an error) is memoized: a broken corpus file is an operator
// problem, not something to re-stat on every request.
func (s *Service) Corpus() (*Corpus, error) {
	s.once.Do(func() {
		s.corpus, s.err = Load(s.path)
	})
	return s.corpus, s.err
}

// Load reads and validates a knowledge base JSON file.
func Load(path string) (*Corpus, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %q: %w", path, err)
	}

	var corpus Corpus
	if err := json.Unmarshal(content, &corpus); err != nil {
		return nil, fmt.Errorf("parse knowledge base %q: %w", path, err)
	}

	// The ingestion tool writes chunk_count and df, but recover from files
	// that predate those fields.
	if corpus.ChunkCount != len(corpus.Chunks) {
		corpus.ChunkCount = len(corpus.Chunks)
	}
	if corpus.DF == nil {
		corpus.DF = make(map[string]int)
		for _, chunk := range corpus.Chunks {
			for token := range chunk.TF {
				corpus.DF[token]++
			}
		}
	}
	for i, chunk := range corpus.Chunks {
		if chunk.TF == nil {
			corpus.Chunks[i].TF = termFrequencies(chunk.Text)
		}
	}

	return &corpus, nil
}
