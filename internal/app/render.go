package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wordquiz/internal/domain"
)

const cautionHeader = "⚠️ **Caution!** Hard mode will likely present problems that rely solely on luck to solve.\n\n"

func headerFor(q domain.Question) string {
	if q.Difficulty == domain.DifficultyHard {
		return cautionHeader
	}
	return ""
}

func definitionBlock(q domain.Question) string {
	return "📖 Definition:\n" + q.Definition + "\n\n"
}

func promptContent(q domain.Question, timeout time.Duration) string {
	var b strings.Builder
	b.WriteString(headerFor(q))
	b.WriteString(definitionBlock(q))
	if q.Extreme {
		b.WriteString("🔥 Hell Mode Activated\n")
	}
	fmt.Fprintf(&b, "⏳ You have %d seconds!", int(timeout.Round(time.Second)/time.Second))
	return b.String()
}

func answeredContent(q domain.Question, correct bool) string {
	result := fmt.Sprintf("It's Wrong... Correct answer: **%s**", q.CorrectWord)
	if correct {
		result = fmt.Sprintf("You're Right! Correct answer: **%s**", q.CorrectWord)
	}
	return headerFor(q) + definitionBlock(q) + result
}

func timedOutContent(q domain.Question) string {
	return headerFor(q) + definitionBlock(q) + fmt.Sprintf("Time's up!\nCorrect answer: **%s**", q.CorrectWord)
}

// renderOptions colors options for display. Open rounds show every option
// selectable; terminal rounds disable all, mark the correct one success and
// the rest danger.
func renderOptions(options []string, correctWord, chosen string, terminal bool) []domain.RenderedOption {
	out := make([]domain.RenderedOption, len(options))
	for i, label := range options {
		opt := domain.RenderedOption{Label: label, Style: domain.StylePrimary}
		if terminal {
			opt.Disabled = true
			opt.Style = domain.StyleDanger
			if domain.SameWord(label, correctWord) {
				opt.Style = domain.StyleSuccess
			}
			opt.Chosen = chosen != "" && label == chosen
		}
		out[i] = opt
	}
	return out
}

// UserMessage maps a question-building failure to the text shown to players.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSizeNotNumeric):
		return "Invalid choices value."
	case errors.Is(err, domain.ErrInvalidSize):
		return fmt.Sprintf("Choices must be between %d and %d.", domain.MinOptions, domain.MaxOptions)
	case errors.Is(err, domain.ErrInvalidMode):
		return "Hell only sleeps in **HARD** places..."
	case errors.Is(err, domain.ErrInvalidDifficulty):
		return "Difficulty must be easy, normal or hard."
	default:
		return "Failed to build a question."
	}
}
