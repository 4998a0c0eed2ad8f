package app

import (
	"context"

	"wordquiz/internal/domain"
)

// Lexicon is the read-only lexical knowledge base the quiz engine draws from.
type Lexicon interface {
	// AllWords returns the full vocabulary. Callers must not modify the slice.
	AllWords() []string
	// FirstSense returns the first listed sense of word.
	FirstSense(word string) (domain.Sense, bool)
	// SynonymsAndAntonyms returns the surface forms of the first sense's
	// lemmas (excluding word itself) and of their registered opposites.
	SynonymsAndAntonyms(word string) (synonyms, antonyms []string)
}

// POSIndex is an optional Lexicon extension that lists vocabulary words by
// the part of speech of their first sense.
type POSIndex interface {
	WordsWithPOS(pos domain.PartOfSpeech) []string
}

// LexiconRepository hands out the current lexicon (cached, reloaded on expiry).
type LexiconRepository interface {
	GetLexicon(ctx context.Context) (Lexicon, error)
}

// LookupEntry derives a WordEntry for word using the first sense only.
func LookupEntry(lex Lexicon, word string) domain.WordEntry {
	entry := domain.WordEntry{
		Word:         word,
		PartOfSpeech: domain.PartOfSpeechOther,
		Definition:   domain.UnknownDefinition,
		IsProperNoun: domain.IsProperNoun(word),
	}
	sense, ok := lex.FirstSense(word)
	if !ok {
		return entry
	}
	entry.PartOfSpeech = sense.POS
	if sense.Definition != "" {
		entry.Definition = sense.Definition
	}
	entry.Synonyms, entry.Antonyms = lex.SynonymsAndAntonyms(word)
	return entry
}

func wordsWithPOS(lex Lexicon, pos domain.PartOfSpeech) []string {
	if idx, ok := lex.(POSIndex); ok {
		return idx.WordsWithPOS(pos)
	}
	var out []string
	for _, w := range lex.AllWords() {
		if sense, ok := lex.FirstSense(w); ok && sense.POS == pos {
			out = append(out, w)
		}
	}
	return out
}
