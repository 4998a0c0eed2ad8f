package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wordquiz/internal/app"
	"wordquiz/internal/domain"
	"wordquiz/internal/infra/dataset"
	"wordquiz/internal/infra/memory"
)

func newTestService(t *testing.T, opts ...app.ServiceOption) *app.QuizService {
	t.Helper()
	lexicons := memory.NewLexiconRepository(memory.NewStaticLexiconLoader(dataset.Sample()), time.Minute)
	return app.NewQuizService(memory.NewChannelStore(), memory.NewRoundStore(time.Minute), lexicons, opts...)
}

func TestJoinReturnsRosterInJoinOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "general", "u1", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	time.Sleep(time.Millisecond)
	roster, err := svc.Join(ctx, "general", "u2", "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if roster.ChannelID != "general" || len(roster.Entries) != 2 {
		t.Fatalf("unexpected roster %+v", roster)
	}
	if roster.Entries[0].UserID != "u1" || roster.Entries[1].UserID != "u2" {
		t.Fatalf("roster not ordered by join time: %+v", roster.Entries)
	}

	roster, _ = svc.Join(ctx, "general", "u1", "Alice Renamed")
	if len(roster.Entries) != 2 || roster.Entries[0].DisplayName != "Alice Renamed" {
		t.Fatalf("rejoin should refresh name in place: %+v", roster.Entries)
	}
}

func TestStartRoundRequiresChannel(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.StartRound(context.Background(), "nowhere", "easy", "3"); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Fatalf("expected channel not found, got %v", err)
	}
	if _, _, err := svc.Subscribe(context.Background(), "nowhere"); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Fatalf("expected channel not found on subscribe, got %v", err)
	}
}

func TestStartRoundPropagatesValidationErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Join(ctx, "general", "u1", "Alice")

	if _, err := svc.StartRound(ctx, "general", "easy", "hell"); !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if _, err := svc.StartRound(ctx, "general", "hard", "12"); !errors.Is(err, domain.ErrInvalidSize) {
		t.Fatalf("expected invalid size, got %v", err)
	}
}

func TestRoundRendersReachSubscribers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Join(ctx, "general", "u1", "Alice")

	renders, cancel, err := svc.Subscribe(ctx, "general")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	round, err := svc.StartRound(ctx, "general", "easy", "4")
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	prompt := waitRender(t, renders)
	if prompt.RoundID != round.ID() || prompt.State != domain.RoundOpen || len(prompt.Options) != 4 {
		t.Fatalf("unexpected prompt %+v", prompt)
	}

	outcome, err := svc.SubmitAnswer(ctx, round.ID(), round.Question().CorrectWord, domain.Responder{UserID: "u1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Accepted || !outcome.Correct {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Responder.DisplayName != "Alice" {
		t.Fatalf("expected display name filled from roster, got %q", outcome.Responder.DisplayName)
	}
	final := waitRender(t, renders)
	if final.State != domain.RoundAnswered {
		t.Fatalf("expected answered render, got %s", final.State)
	}

	// a late subscriber sees the latest render first
	late, cancelLate, err := svc.Subscribe(ctx, "general")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancelLate()
	if replay := waitRender(t, late); replay.State != domain.RoundAnswered || replay.RoundID != round.ID() {
		t.Fatalf("unexpected replay %+v", replay)
	}
}

func TestSubmitAnswerRejectsOutsiders(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Join(ctx, "general", "u1", "Alice")

	round, err := svc.StartRound(ctx, "general", "easy", "3")
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	defer round.Timeout()

	if _, err := svc.SubmitAnswer(ctx, round.ID(), round.Options()[0], domain.Responder{UserID: "stranger"}); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant not found, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "missing", "ocean", domain.Responder{UserID: "u1"}); !errors.Is(err, domain.ErrRoundNotFound) {
		t.Fatalf("expected round not found, got %v", err)
	}
	if round.State() != domain.RoundOpen {
		t.Fatalf("rejected submissions must not resolve the round")
	}
}

func TestLateAnswerAfterTimeoutIsIgnored(t *testing.T) {
	svc := newTestService(t, app.WithRoundTimeout(20*time.Millisecond))
	ctx := context.Background()
	_, _ = svc.Join(ctx, "general", "u1", "Alice")

	round, err := svc.StartRound(ctx, "general", "normal", "2")
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	select {
	case <-round.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("round did not time out")
	}

	outcome, err := svc.SubmitAnswer(ctx, round.ID(), round.Question().CorrectWord, domain.Responder{UserID: "u1"})
	if err != nil {
		t.Fatalf("late submit should be a no-op, got %v", err)
	}
	if outcome.Accepted {
		t.Fatalf("late submit must not be accepted")
	}
	if round.State() != domain.RoundTimedOut {
		t.Fatalf("expected timed out, got %s", round.State())
	}
}

func TestNewRoundWithoutChannel(t *testing.T) {
	svc := newTestService(t, app.WithSelector(app.NewSelector(app.WithSeed(11))))
	ctx := context.Background()

	rec := &renderRecorder{}
	round, err := svc.NewRound(ctx, "hard", "2", rec.record)
	if err != nil {
		t.Fatalf("new round: %v", err)
	}
	if round.ChannelID() != "" {
		t.Fatalf("expected no channel, got %q", round.ChannelID())
	}
	if _, err := svc.SubmitAnswer(ctx, round.ID(), round.Options()[0], domain.Responder{UserID: "anyone"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(rec.terminal()) != 1 {
		t.Fatalf("expected one terminal render")
	}
}

func TestLeaveDropsEmptyChannel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Join(ctx, "general", "u1", "Alice")

	svc.Leave(ctx, "general", "u1")
	if _, _, err := svc.Subscribe(ctx, "general"); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Fatalf("expected empty channel to be removed, got %v", err)
	}
	svc.Leave(ctx, "general", "u1")
}

func TestPickWordUsesFirstSense(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 20; i++ {
		entry, err := svc.PickWord(context.Background())
		if err != nil {
			t.Fatalf("pick word: %v", err)
		}
		if entry.Word == "" || entry.Definition == "" {
			t.Fatalf("incomplete entry %+v", entry)
		}
		if entry.Word == "Paris" && (!entry.IsProperNoun || entry.PartOfSpeech != domain.PartOfSpeechNoun) {
			t.Fatalf("unexpected entry for Paris %+v", entry)
		}
	}
}

func TestPickWordEmptyLexicon(t *testing.T) {
	lexicons := memory.NewLexiconRepository(memory.NewStaticLexiconLoader(nil), time.Minute)
	svc := app.NewQuizService(memory.NewChannelStore(), memory.NewRoundStore(time.Minute), lexicons)

	if _, err := svc.PickWord(context.Background()); !errors.Is(err, domain.ErrLexiconEmpty) {
		t.Fatalf("expected empty lexicon error, got %v", err)
	}
}

func waitRender(t *testing.T, ch <-chan domain.Render) domain.Render {
	t.Helper()
	select {
	case render := <-ch:
		return render
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for render")
		return domain.Render{}
	}
}
