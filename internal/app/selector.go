package app

import (
	"fmt"

	"github.com/samber/lo"

	"wordquiz/internal/domain"
)

const (
	// DefaultHardAttempts bounds the random correct-word draws before the
	// selector falls back to a full scan of the shuffled vocabulary.
	DefaultHardAttempts = 500
	// randomDrawFactor bounds uniform vocabulary draws per missing option.
	randomDrawFactor = 64
)

// Selection is the outcome of distractor selection: the correct word, the
// sense used for the question and the wrong options.
type Selection struct {
	CorrectWord string
	Sense       domain.Sense
	Distractors []string
}

// Selector implements the per-difficulty distractor strategies.
type Selector struct {
	rnd          *randomizer
	hardAttempts int
}

// SelectorOption customizes a Selector.
type SelectorOption func(*Selector)

// WithSeed makes selection reproducible.
func WithSeed(seed int64) SelectorOption {
	return func(s *Selector) { s.rnd = newRandomizer(seed) }
}

// WithHardAttempts sets the random draw budget of the correct-word search.
func WithHardAttempts(n int) SelectorOption {
	return func(s *Selector) {
		if n > 0 {
			s.hardAttempts = n
		}
	}
}

func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{rnd: newRandomizer(0), hardAttempts: DefaultHardAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks a correct word and count distractors for the tier. In extreme
// mode count is ignored and at least ExtremeMinOptions-1 distractors are returned.
func (s *Selector) Select(lex Lexicon, difficulty domain.Difficulty, extreme bool, count int) (Selection, error) {
	if extreme && difficulty != domain.DifficultyHard {
		return Selection{}, domain.ErrInvalidMode
	}
	switch difficulty {
	case domain.DifficultyEasy, domain.DifficultyNormal:
		word, sense, err := s.pickCorrect(lex)
		if err != nil {
			return Selection{}, err
		}
		distractors, err := s.SelectDistractors(lex, word, sense.POS, count, difficulty)
		if err != nil {
			return Selection{}, err
		}
		return Selection{CorrectWord: word, Sense: sense, Distractors: distractors}, nil
	case domain.DifficultyHard:
		if extreme {
			return s.Extreme(lex)
		}
		return s.Hard(lex, count)
	default:
		return Selection{}, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}
}

// SelectDistractors returns count wrong options for an already chosen word
// using the easy or normal strategy.
func (s *Selector) SelectDistractors(lex Lexicon, correct string, pos domain.PartOfSpeech, count int, difficulty domain.Difficulty) ([]string, error) {
	switch difficulty {
	case domain.DifficultyEasy:
		return s.Easy(lex, correct, count)
	case domain.DifficultyNormal:
		return s.Normal(lex, correct, pos, count)
	default:
		return nil, fmt.Errorf("%w: %q has no fixed-word strategy", domain.ErrInvalidDifficulty, difficulty)
	}
}

// Easy draws uniformly from the whole vocabulary, skipping anything that
// normalizes to the correct word or to an earlier pick.
func (s *Selector) Easy(lex Lexicon, correct string, count int) ([]string, error) {
	picks := newPicker(correct)
	words := lex.AllWords()
	for draws := 0; picks.len() < count && draws < count*randomDrawFactor && len(words) > 0; draws++ {
		picks.add(words[s.rnd.intn(len(words))])
	}
	if picks.len() < count {
		for _, w := range s.rnd.shuffled(words) {
			if picks.len() >= count {
				break
			}
			picks.add(w)
		}
	}
	if picks.len() < count {
		return nil, fmt.Errorf("%w: vocabulary has %d usable words, need %d", domain.ErrInsufficientCandidates, picks.len(), count)
	}
	return picks.words, nil
}

// Normal samples from words sharing the correct word's part of speech and
// proper-noun casing class.
func (s *Selector) Normal(lex Lexicon, correct string, pos domain.PartOfSpeech, count int) ([]string, error) {
	proper := domain.IsProperNoun(correct)
	pool := lo.Filter(wordsWithPOS(lex, pos), func(w string, _ int) bool {
		return !domain.SameWord(w, correct) && domain.IsProperNoun(w) == proper
	})
	pool = lo.UniqBy(pool, domain.Normalize)
	if len(pool) < count {
		return nil, fmt.Errorf("%w: %d %s words share the casing of %q, need %d", domain.ErrInsufficientCandidates, len(pool), pos, correct, count)
	}
	return s.rnd.sample(pool, count), nil
}

// Hard searches for a correct word whose synonym/antonym pool holds at least
// count members and samples the distractors from that pool.
func (s *Selector) Hard(lex Lexicon, count int) (Selection, error) {
	word, sense, pool, err := s.findRelated(lex, max(count, 1))
	if err != nil {
		return Selection{}, err
	}
	return Selection{CorrectWord: word, Sense: sense, Distractors: s.rnd.sample(pool, count)}, nil
}

// Extreme needs a correct word with a non-empty synonym/antonym pool and tops
// the pool up to ExtremeMinOptions-1 with same part-of-speech words, then
// with random vocabulary words.
func (s *Selector) Extreme(lex Lexicon) (Selection, error) {
	word, sense, pool, err := s.findRelated(lex, 1)
	if err != nil {
		return Selection{}, err
	}
	need := domain.ExtremeMinOptions - 1
	picks := newPicker(word)
	for _, w := range pool {
		picks.add(w)
	}
	if picks.len() < need {
		for _, w := range s.rnd.shuffled(wordsWithPOS(lex, sense.POS)) {
			if picks.len() >= need {
				break
			}
			picks.add(w)
		}
	}
	words := lex.AllWords()
	for draws := 0; picks.len() < need && draws < need*randomDrawFactor && len(words) > 0; draws++ {
		picks.add(words[s.rnd.intn(len(words))])
	}
	if picks.len() < need {
		for _, w := range s.rnd.shuffled(words) {
			if picks.len() >= need {
				break
			}
			picks.add(w)
		}
	}
	if picks.len() < need {
		return Selection{}, fmt.Errorf("%w: only %d extreme options for %q", domain.ErrInsufficientCandidates, picks.len()+1, word)
	}
	return Selection{CorrectWord: word, Sense: sense, Distractors: picks.words}, nil
}

// RelatedPool returns the synonym+antonym pool of word, deduplicated by
// normalized form and excluding word itself.
func RelatedPool(lex Lexicon, word string) []string {
	synonyms, antonyms := lex.SynonymsAndAntonyms(word)
	picks := newPicker(word)
	for _, group := range [][]string{synonyms, antonyms} {
		for _, w := range group {
			picks.add(w)
		}
	}
	return picks.words
}

// pickCorrect draws a random vocabulary word that has a sense.
func (s *Selector) pickCorrect(lex Lexicon) (string, domain.Sense, error) {
	words := lex.AllWords()
	for i := 0; i < s.hardAttempts && len(words) > 0; i++ {
		w := words[s.rnd.intn(len(words))]
		if sense, ok := lex.FirstSense(w); ok {
			return w, sense, nil
		}
	}
	for _, w := range s.rnd.shuffled(words) {
		if sense, ok := lex.FirstSense(w); ok {
			return w, sense, nil
		}
	}
	return "", domain.Sense{}, fmt.Errorf("%w: no word with a sense", domain.ErrInsufficientCandidates)
}

// findRelated runs the bounded correct-word search of the hard tier: up to
// hardAttempts random draws, then one pass over the shuffled vocabulary.
// Named-entity senses never qualify.
func (s *Selector) findRelated(lex Lexicon, minPool int) (string, domain.Sense, []string, error) {
	usable := func(w string) (domain.Sense, []string, bool) {
		sense, ok := lex.FirstSense(w)
		if !ok || sense.Instance {
			return domain.Sense{}, nil, false
		}
		pool := RelatedPool(lex, w)
		return sense, pool, len(pool) >= minPool
	}

	words := lex.AllWords()
	for i := 0; i < s.hardAttempts && len(words) > 0; i++ {
		w := words[s.rnd.intn(len(words))]
		if sense, pool, ok := usable(w); ok {
			return w, sense, pool, nil
		}
	}
	for _, w := range s.rnd.shuffled(words) {
		if sense, pool, ok := usable(w); ok {
			return w, sense, pool, nil
		}
	}
	return "", domain.Sense{}, nil, fmt.Errorf("%w: no word has %d related words", domain.ErrInsufficientCandidates, minPool)
}

// picker accumulates words that are distinct by normalized form and differ
// from an excluded word.
type picker struct {
	seen  map[string]struct{}
	words []string
}

func newPicker(exclude string) *picker {
	return &picker{seen: map[string]struct{}{domain.Normalize(exclude): {}}}
}

func (p *picker) add(w string) bool {
	n := domain.Normalize(w)
	if n == "" {
		return false
	}
	if _, dup := p.seen[n]; dup {
		return false
	}
	p.seen[n] = struct{}{}
	p.words = append(p.words, w)
	return true
}

func (p *picker) len() int {
	return len(p.words)
}
