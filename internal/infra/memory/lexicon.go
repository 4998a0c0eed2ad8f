package memory

import (
	"sort"

	"github.com/samber/lo"

	"wordquiz/internal/domain"
)

// Lexicon is an indexed, read-only in-memory lexicon. The vocabulary is the
// set of entry words.
type Lexicon struct {
	words        []string
	entries      map[string]domain.LexiconEntry
	byNormalized map[string]string
	byPOS        map[domain.PartOfSpeech][]string
}

// NewLexicon indexes entries. Entries without a word are skipped; a repeated
// word keeps its first entry.
func NewLexicon(entries []domain.LexiconEntry) *Lexicon {
	l := &Lexicon{
		entries:      make(map[string]domain.LexiconEntry, len(entries)),
		byNormalized: make(map[string]string, len(entries)),
		byPOS:        make(map[domain.PartOfSpeech][]string),
	}
	for _, e := range entries {
		if e.Word == "" {
			continue
		}
		if _, dup := l.entries[e.Word]; dup {
			continue
		}
		l.entries[e.Word] = e
		l.words = append(l.words, e.Word)
		if _, ok := l.byNormalized[domain.Normalize(e.Word)]; !ok {
			l.byNormalized[domain.Normalize(e.Word)] = e.Word
		}
	}
	sort.Strings(l.words)
	for _, w := range l.words {
		if sense, ok := l.FirstSense(w); ok {
			l.byPOS[sense.POS] = append(l.byPOS[sense.POS], w)
		}
	}
	return l
}

// Len returns the vocabulary size.
func (l *Lexicon) Len() int {
	return len(l.words)
}

func (l *Lexicon) AllWords() []string {
	return l.words
}

func (l *Lexicon) WordsWithPOS(pos domain.PartOfSpeech) []string {
	return l.byPOS[pos]
}

// FirstSense looks the word up exactly, then by normalized form.
func (l *Lexicon) FirstSense(word string) (domain.Sense, bool) {
	entry, ok := l.entries[word]
	if !ok {
		key, found := l.byNormalized[domain.Normalize(word)]
		if !found {
			return domain.Sense{}, false
		}
		entry = l.entries[key]
	}
	if len(entry.Senses) == 0 {
		return domain.Sense{}, false
	}
	return entry.Senses[0], true
}

func (l *Lexicon) SynonymsAndAntonyms(word string) ([]string, []string) {
	sense, ok := l.FirstSense(word)
	if !ok {
		return nil, nil
	}
	synonyms := lo.Uniq(lo.FilterMap(sense.Lemmas, func(lemma string, _ int) (string, bool) {
		return domain.Display(lemma), !domain.SameWord(lemma, word)
	}))
	antonyms := lo.Uniq(lo.Map(sense.Antonyms, func(ant string, _ int) string {
		return domain.Display(ant)
	}))
	return synonyms, antonyms
}
