package domain

import (
	"strings"
	"time"
)

// PartOfSpeech is the coarse word class of a sense.
type PartOfSpeech string

const (
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechAdjective PartOfSpeech = "adj"
	PartOfSpeechAdverb    PartOfSpeech = "adv"
	PartOfSpeechOther     PartOfSpeech = "other"
)

// ParsePartOfSpeech accepts long names and WordNet letters. Satellite
// adjectives ("s") fold into adj.
func ParsePartOfSpeech(raw string) PartOfSpeech {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "n", "noun":
		return PartOfSpeechNoun
	case "v", "verb":
		return PartOfSpeechVerb
	case "a", "s", "adj", "adjective":
		return PartOfSpeechAdjective
	case "r", "adv", "adverb":
		return PartOfSpeechAdverb
	default:
		return PartOfSpeechOther
	}
}

// UnmarshalText lets datasets use either spelling.
func (p *PartOfSpeech) UnmarshalText(text []byte) error {
	*p = ParsePartOfSpeech(string(text))
	return nil
}

// Sense is one meaning of a word as listed by the lexicon.
type Sense struct {
	POS        PartOfSpeech `json:"pos" yaml:"pos"`
	Definition string       `json:"definition" yaml:"definition"`
	Lemmas     []string     `json:"lemmas,omitempty" yaml:"lemmas,omitempty"`
	Antonyms   []string     `json:"antonyms,omitempty" yaml:"antonyms,omitempty"`
	// Instance marks senses that are instances of a class (named entities).
	Instance bool `json:"instance,omitempty" yaml:"instance,omitempty"`
}

// LexiconEntry is the stored form of a vocabulary word and its ordered senses.
type LexiconEntry struct {
	Word   string  `json:"word" yaml:"word"`
	Senses []Sense `json:"senses" yaml:"senses"`
}

// UnknownDefinition is used when the lexicon has no sense for a word.
const UnknownDefinition = "unknown"

// WordEntry is derived on demand from the lexicon using the first sense only.
type WordEntry struct {
	Word         string       `json:"word"`
	PartOfSpeech PartOfSpeech `json:"partOfSpeech"`
	Definition   string       `json:"definition"`
	Synonyms     []string     `json:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty"`
	IsProperNoun bool         `json:"isProperNoun"`
}

// Difficulty selects the distractor strategy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

const (
	// MinOptions and MaxOptions bound a non-extreme option count.
	MinOptions = 2
	MaxOptions = 10
	// DefaultOptions applies when no size is given.
	DefaultOptions = 3
	// ExtremeMinOptions is the minimum option count in extreme mode.
	ExtremeMinOptions = 20
)

// Question is a built multiple-choice question. Options contain CorrectWord
// exactly once and are unique after normalization; their order is not the
// display order.
type Question struct {
	CorrectWord  string       `json:"correctWord"`
	Definition   string       `json:"definition"`
	PartOfSpeech PartOfSpeech `json:"partOfSpeech"`
	Options      []string     `json:"options"`
	Difficulty   Difficulty   `json:"difficulty"`
	Extreme      bool         `json:"extreme"`
}

// RoundState is the lifecycle state of a round.
type RoundState string

const (
	RoundOpen     RoundState = "open"
	RoundAnswered RoundState = "answered"
	RoundTimedOut RoundState = "timed_out"
)

// Terminal reports whether no further transition is possible.
func (s RoundState) Terminal() bool {
	return s == RoundAnswered || s == RoundTimedOut
}

// OptionStyle is the presentation color of an option.
type OptionStyle string

const (
	StylePrimary OptionStyle = "primary"
	StyleSuccess OptionStyle = "success"
	StyleDanger  OptionStyle = "danger"
)

// RenderedOption is one selectable option as shown to players.
type RenderedOption struct {
	Label    string      `json:"label"`
	Style    OptionStyle `json:"style"`
	Disabled bool        `json:"disabled"`
	Chosen   bool        `json:"chosen,omitempty"`
}

// Render is a full snapshot of what a round should display.
type Render struct {
	RoundID   string           `json:"roundId"`
	ChannelID string           `json:"channelId,omitempty"`
	State     RoundState       `json:"state"`
	Content   string           `json:"content"`
	Options   []RenderedOption `json:"options"`
	Deadline  time.Time        `json:"deadline"`
}

// Responder identifies whoever picked an option.
type Responder struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// AnswerOutcome reports the effect of a submission. Accepted is false when
// the round was already terminal and the submission was ignored.
type AnswerOutcome struct {
	RoundID     string    `json:"roundId"`
	Accepted    bool      `json:"accepted"`
	Correct     bool      `json:"correct"`
	Chosen      string    `json:"chosen"`
	CorrectWord string    `json:"correctWord,omitempty"`
	Responder   Responder `json:"responder"`
}

// Participant is a member of a channel.
type Participant struct {
	UserID      string
	DisplayName string
	JoinedAt    time.Time
}

// RosterEntry is a snapshot-friendly view of a participant.
type RosterEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Roster lists the members of a channel ordered by join time.
type Roster struct {
	ChannelID string        `json:"channelId"`
	Entries   []RosterEntry `json:"entries"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
