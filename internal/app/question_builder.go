package app

import (
	"fmt"
	"strconv"
	"strings"

	"wordquiz/internal/domain"
)

// ParseDifficulty maps user input to a tier. Empty input means easy.
func ParseDifficulty(raw string) (domain.Difficulty, error) {
	switch d := domain.Difficulty(strings.ToLower(strings.TrimSpace(raw))); d {
	case "":
		return domain.DifficultyEasy, nil
	case domain.DifficultyEasy, domain.DifficultyNormal, domain.DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, raw)
	}
}

// ParseSize reads an option count in [MinOptions, MaxOptions] or the
// "hell"/"extreme" keyword. Empty input means DefaultOptions.
func ParseSize(raw string) (count int, extreme bool, err error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return domain.DefaultOptions, false, nil
	case "hell", "extreme":
		return domain.ExtremeMinOptions, true, nil
	}
	if strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, false, fmt.Errorf("%w: %q", domain.ErrSizeNotNumeric, raw)
	}
	count, err = strconv.Atoi(raw)
	if err != nil || count < domain.MinOptions || count > domain.MaxOptions {
		return 0, false, fmt.Errorf("%w: %q outside %d..%d", domain.ErrInvalidSize, raw, domain.MinOptions, domain.MaxOptions)
	}
	return count, false, nil
}

// QuestionBuilder validates a request and assembles a Question from a Selection.
type QuestionBuilder struct {
	selector *Selector
}

func NewQuestionBuilder(selector *Selector) *QuestionBuilder {
	if selector == nil {
		selector = NewSelector()
	}
	return &QuestionBuilder{selector: selector}
}

// Build validates the difficulty and size and builds a question. The returned
// options are not shuffled: the correct word comes last.
func (b *QuestionBuilder) Build(lex Lexicon, difficultyRaw, sizeRaw string) (domain.Question, error) {
	difficulty, err := ParseDifficulty(difficultyRaw)
	if err != nil {
		return domain.Question{}, err
	}
	count, extreme, err := ParseSize(sizeRaw)
	if err != nil {
		return domain.Question{}, err
	}
	if extreme && difficulty != domain.DifficultyHard {
		return domain.Question{}, fmt.Errorf("%w: got %s", domain.ErrInvalidMode, difficulty)
	}

	sel, err := b.selector.Select(lex, difficulty, extreme, count-1)
	if err != nil {
		return domain.Question{}, err
	}

	definition := sel.Sense.Definition
	if definition == "" {
		definition = domain.UnknownDefinition
	}
	options := make([]string, 0, len(sel.Distractors)+1)
	options = append(options, sel.Distractors...)
	options = append(options, sel.CorrectWord)

	return domain.Question{
		CorrectWord:  sel.CorrectWord,
		Definition:   definition,
		PartOfSpeech: sel.Sense.POS,
		Options:      options,
		Difficulty:   difficulty,
		Extreme:      extreme,
	}, nil
}
