// Package dataset reads lexicon datasets stored as YAML (or JSON, which is a
// subset) lists of entries.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"wordquiz/internal/domain"
)

//go:embed sample_lexicon.yaml
var sampleLexicon []byte

// Sample returns the embedded demo lexicon.
func Sample() []domain.LexiconEntry {
	entries, err := Decode(sampleLexicon)
	if err != nil {
		panic(fmt.Sprintf("embedded sample lexicon: %v", err))
	}
	return entries
}

// Decode parses a YAML list of lexicon entries.
func Decode(data []byte) ([]domain.LexiconEntry, error) {
	var entries []domain.LexiconEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	return entries, nil
}

// Read decodes entries from r.
func Read(r io.Reader) ([]domain.LexiconEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Decode(data)
}

// FileLoader loads a dataset file on every call; wrap it in a caching
// repository.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadLexicon(_ context.Context) ([]domain.LexiconEntry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon %s: %w", l.path, err)
	}
	defer f.Close()
	entries, err := Read(f)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrLexiconEmpty
	}
	return entries, nil
}
