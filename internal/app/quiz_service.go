package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"wordquiz/internal/domain"
)

// DefaultRoundTimeout is how long a round stays open.
const DefaultRoundTimeout = 30 * time.Second

// ChannelRepository abstracts how channels are stored (in-memory, Redis, etc).
type ChannelRepository interface {
	GetOrCreate(channelID string) *Channel
	Get(channelID string) (*Channel, bool)
	DeleteIfEmpty(channelID string)
}

// RoundRepository keeps rounds addressable by ID after they resolve so late
// answers stay no-ops.
type RoundRepository interface {
	Save(round *Round)
	Get(roundID string) (*Round, bool)
}

// QuizService contains the word quiz use cases.
type QuizService struct {
	channels ChannelRepository
	rounds   RoundRepository
	lexicons LexiconRepository
	builder  *QuestionBuilder
	rnd      *randomizer
	timeout  time.Duration
	logger   *zap.Logger
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

func WithRoundTimeout(d time.Duration) ServiceOption {
	return func(s *QuizService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithSelector(selector *Selector) ServiceOption {
	return func(s *QuizService) { s.builder = NewQuestionBuilder(selector) }
}

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *QuizService) { s.logger = logger }
}

func NewQuizService(channels ChannelRepository, rounds RoundRepository, lexicons LexiconRepository, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		channels: channels,
		rounds:   rounds,
		lexicons: lexicons,
		builder:  NewQuestionBuilder(nil),
		rnd:      newRandomizer(0),
		timeout:  DefaultRoundTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewChannel is exported for infrastructure layers that need to seed channels.
func NewChannel(id string) *Channel {
	return newChannel(id)
}

// Join registers or refreshes a participant in a channel.
func (s *QuizService) Join(_ context.Context, channelID, userID, displayName string) (domain.Roster, error) {
	channel := s.channels.GetOrCreate(channelID)
	return channel.join(userID, displayName), nil
}

// Leave removes a participant and drops the channel if it became empty.
func (s *QuizService) Leave(_ context.Context, channelID, userID string) {
	channel, ok := s.channels.Get(channelID)
	if !ok {
		return
	}
	channel.leave(userID)
	if channel.isEmpty() {
		s.channels.DeleteIfEmpty(channelID)
	}
}

// Subscribe returns a channel that receives every render published in channelID.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, channelID string) (<-chan domain.Render, func(), error) {
	channel, ok := s.channels.Get(channelID)
	if !ok {
		return nil, nil, domain.ErrChannelNotFound
	}
	ch, cancel := channel.subscribe()
	return ch, cancel, nil
}

// BuildQuestion builds a question against the current lexicon.
func (s *QuizService) BuildQuestion(ctx context.Context, difficulty, size string) (domain.Question, error) {
	lex, err := s.lexicons.GetLexicon(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := s.builder.Build(lex, difficulty, size)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCandidates) {
			s.logger.Warn("could not build question",
				zap.String("difficulty", difficulty),
				zap.String("size", size),
				zap.Error(err),
			)
		}
		return domain.Question{}, err
	}
	return q, nil
}

// StartRound builds a question and opens a round whose renders go to every
// subscriber of channelID.
func (s *QuizService) StartRound(ctx context.Context, channelID, difficulty, size string) (*Round, error) {
	channel, ok := s.channels.Get(channelID)
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	return s.NewRound(ctx, difficulty, size, channel.publish, WithChannel(channelID))
}

// NewRound builds a question and opens a round rendering to render.
func (s *QuizService) NewRound(ctx context.Context, difficulty, size string, render RenderFunc, opts ...RoundOption) (*Round, error) {
	q, err := s.BuildQuestion(ctx, difficulty, size)
	if err != nil {
		return nil, err
	}
	opts = append([]RoundOption{WithShuffle(s.rnd.shuffled), WithRoundLogger(s.logger)}, opts...)
	round := StartRound(q, s.timeout, render, opts...)
	s.rounds.Save(round)
	return round, nil
}

// SubmitAnswer forwards a pick to the round. Picks on resolved rounds are
// accepted silently with Accepted=false.
func (s *QuizService) SubmitAnswer(_ context.Context, roundID, option string, responder domain.Responder) (domain.AnswerOutcome, error) {
	round, ok := s.rounds.Get(roundID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrRoundNotFound
	}
	if channelID := round.ChannelID(); channelID != "" {
		channel, ok := s.channels.Get(channelID)
		if !ok {
			return domain.AnswerOutcome{}, domain.ErrChannelNotFound
		}
		participant, ok := channel.participant(responder.UserID)
		if !ok {
			return domain.AnswerOutcome{}, domain.ErrParticipantNotFound
		}
		if responder.DisplayName == "" {
			responder.DisplayName = participant.DisplayName
		}
	}
	return round.Submit(option, responder)
}

// PickWord returns a random vocabulary word with its first-sense details.
func (s *QuizService) PickWord(ctx context.Context) (domain.WordEntry, error) {
	lex, err := s.lexicons.GetLexicon(ctx)
	if err != nil {
		return domain.WordEntry{}, err
	}
	words := lex.AllWords()
	if len(words) == 0 {
		return domain.WordEntry{}, domain.ErrLexiconEmpty
	}
	return LookupEntry(lex, words[s.rnd.intn(len(words))]), nil
}
