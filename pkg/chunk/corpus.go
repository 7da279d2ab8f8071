package chunk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Corpus is the canonical ordered sequence of text chunks extracted from
// the source documents. Row i of the corpus corresponds to row i of the
// vector index built alongside it. A corpus is immutable once loaded;
// rebuilding the dataset is the only update path.
type Corpus struct {
	chunks []string
}

// NewCorpus wraps an ordered chunk sequence.
func NewCorpus(chunks []string) *Corpus {
	return &Corpus{chunks: chunks}
}

// Len returns the number of chunks in the corpus.
func (c *Corpus) Len() int {
	return len(c.chunks)
}

// Get returns the chunk text at row idx. The second return value is false
// when idx is out of range, which guards against a stale index referencing
// rows the corpus no longer has.
func (c *Corpus) Get(idx int) (string, bool) {
	if idx < 0 || idx >= len(c.chunks) {
		return "", false
	}
	return c.chunks[idx], true
}

// Save writes the corpus as a JSON array of chunk strings.
func (c *Corpus) Save(path string) error {
	data, err := json.Marshal(c.chunks)
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create corpus dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chunks file: %w", err)
	}
	return nil
}

// LoadCorpus reads a corpus previously written by Save.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunks file: %w", err)
	}

	var chunks []string
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("unmarshal chunks: %w", err)
	}

	return &Corpus{chunks: chunks}, nil
}
