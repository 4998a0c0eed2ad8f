package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when the requested option count is neither an
	// integer in [MinOptions, MaxOptions] nor the extreme keyword.
	ErrInvalidSize = errors.New("invalid option count")
	// ErrSizeNotNumeric is the ErrInvalidSize case where the input is not a
	// number at all.
	ErrSizeNotNumeric = fmt.Errorf("%w: not a number", ErrInvalidSize)
	// ErrInvalidMode is returned when extreme mode is requested outside the hard tier.
	ErrInvalidMode = errors.New("extreme mode requires hard difficulty")
	// ErrInvalidDifficulty indicates an unknown difficulty tier.
	ErrInvalidDifficulty = errors.New("unknown difficulty")
	// ErrInsufficientCandidates is returned when the lexicon cannot supply enough
	// distinct options for the requested question.
	ErrInsufficientCandidates = errors.New("not enough candidate words")
	// ErrWordNotFound indicates the lexicon has no sense for a word.
	ErrWordNotFound = errors.New("word not found")
	// ErrLexiconEmpty is returned when a loader produced no entries.
	ErrLexiconEmpty = errors.New("lexicon is empty")
	// ErrRoundNotFound is returned for unknown or expired round IDs.
	ErrRoundNotFound = errors.New("round not found")
	// ErrOptionNotFound indicates a submitted option is not part of the round.
	ErrOptionNotFound = errors.New("option not found")
	// ErrChannelNotFound is returned when a channel has not been joined yet.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrParticipantNotFound is returned when a user tries to act before joining.
	ErrParticipantNotFound = errors.New("participant not found in channel")
)
