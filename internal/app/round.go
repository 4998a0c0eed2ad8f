package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wordquiz/internal/domain"
)

// RenderFunc receives every render of a round. It is called while the round
// holds its lock and must not call back into the round.
type RenderFunc func(domain.Render)

// Round owns one in-flight question. The first of an answer or the deadline
// moves it to a terminal state; everything after that is a no-op.
type Round struct {
	id        string
	channelID string
	question  domain.Question
	options   []string
	timeout   time.Duration
	createdAt time.Time
	deadline  time.Time
	render    RenderFunc
	now       func() time.Time
	shuffle   func([]string) []string
	logger    *zap.Logger

	mu      sync.Mutex
	state   domain.RoundState
	outcome domain.AnswerOutcome
	last    domain.Render
	timer   *time.Timer
	done    chan struct{}
}

// RoundOption customizes a round before it starts.
type RoundOption func(*Round)

func WithRoundID(id string) RoundOption {
	return func(r *Round) { r.id = id }
}

func WithChannel(channelID string) RoundOption {
	return func(r *Round) { r.channelID = channelID }
}

// WithClock allows deterministic timestamps in tests.
func WithClock(now func() time.Time) RoundOption {
	return func(r *Round) { r.now = now }
}

// WithShuffle replaces the display-order shuffle.
func WithShuffle(shuffle func([]string) []string) RoundOption {
	return func(r *Round) { r.shuffle = shuffle }
}

func WithRoundLogger(logger *zap.Logger) RoundOption {
	return func(r *Round) { r.logger = logger }
}

// StartRound opens a round, fixes the display order of the options, renders
// the prompt once and arms the deadline timer.
func StartRound(q domain.Question, timeout time.Duration, render RenderFunc, opts ...RoundOption) *Round {
	r := &Round{
		question: q,
		timeout:  timeout,
		render:   render,
		now:      time.Now,
		shuffle:  newRandomizer(0).shuffled,
		logger:   zap.NewNop(),
		state:    domain.RoundOpen,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	if r.render == nil {
		r.render = func(domain.Render) {}
	}
	r.options = r.shuffle(q.Options)
	r.createdAt = r.now()
	r.deadline = r.createdAt.Add(timeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitLocked(domain.Render{
		State:   domain.RoundOpen,
		Content: promptContent(q, timeout),
		Options: renderOptions(r.options, q.CorrectWord, "", false),
	})
	r.timer = time.AfterFunc(timeout, r.Timeout)
	r.logger.Debug("round started",
		zap.String("round_id", r.id),
		zap.String("difficulty", string(q.Difficulty)),
		zap.Int("options", len(r.options)),
	)
	return r
}

// Submit records a pick. Only the first caller to find the round open wins;
// later calls return an outcome with Accepted=false and render nothing.
func (r *Round) Submit(option string, responder domain.Responder) (domain.AnswerOutcome, error) {
	chosen, ok := r.lookupOption(option)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrOptionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != domain.RoundOpen {
		return domain.AnswerOutcome{RoundID: r.id, Chosen: chosen, Responder: responder}, nil
	}

	correct := domain.SameWord(chosen, r.question.CorrectWord)
	r.state = domain.RoundAnswered
	r.outcome = domain.AnswerOutcome{
		RoundID:     r.id,
		Accepted:    true,
		Correct:     correct,
		Chosen:      chosen,
		CorrectWord: r.question.CorrectWord,
		Responder:   responder,
	}
	r.timer.Stop()
	r.emitLocked(domain.Render{
		State:   domain.RoundAnswered,
		Content: answeredContent(r.question, correct),
		Options: renderOptions(r.options, r.question.CorrectWord, chosen, true),
	})
	close(r.done)
	r.logger.Debug("round answered",
		zap.String("round_id", r.id),
		zap.String("user_id", responder.UserID),
		zap.Bool("correct", correct),
	)
	return r.outcome, nil
}

// Timeout resolves the round as timed out if nobody answered yet.
func (r *Round) Timeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != domain.RoundOpen {
		return
	}
	r.state = domain.RoundTimedOut
	r.outcome = domain.AnswerOutcome{RoundID: r.id, CorrectWord: r.question.CorrectWord}
	r.emitLocked(domain.Render{
		State:   domain.RoundTimedOut,
		Content: timedOutContent(r.question),
		Options: renderOptions(r.options, r.question.CorrectWord, "", true),
	})
	close(r.done)
	r.logger.Debug("round timed out", zap.String("round_id", r.id))
}

func (r *Round) emitLocked(render domain.Render) {
	render.RoundID = r.id
	render.ChannelID = r.channelID
	render.Deadline = r.deadline
	r.last = render
	r.render(render)
}

// lookupOption matches exactly first, then by normalized form.
func (r *Round) lookupOption(option string) (string, bool) {
	for _, o := range r.options {
		if o == option {
			return o, true
		}
	}
	for _, o := range r.options {
		if domain.SameWord(o, option) {
			return o, true
		}
	}
	return "", false
}

func (r *Round) ID() string { return r.id }

func (r *Round) ChannelID() string { return r.channelID }

func (r *Round) Question() domain.Question { return r.question }

// Options returns the fixed display order.
func (r *Round) Options() []string { return append([]string(nil), r.options...) }

func (r *Round) CreatedAt() time.Time { return r.createdAt }

func (r *Round) Deadline() time.Time { return r.deadline }

// Done is closed once the round reaches a terminal state.
func (r *Round) Done() <-chan struct{} { return r.done }

func (r *Round) State() domain.RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Outcome returns the accepted answer, if any.
func (r *Round) Outcome() (domain.AnswerOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, r.outcome.Accepted
}

// Snapshot returns the most recent render.
func (r *Round) Snapshot() domain.Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
