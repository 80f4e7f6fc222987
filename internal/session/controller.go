// Package session runs timed practice turns and keeps the score.
package session

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/mathrun/internal/model"
)

// DefaultFeedbackPause is how long the correct/incorrect indicator stays up.
const DefaultFeedbackPause = 400 * time.Millisecond

// maxInputLen keeps every accepted buffer parseable as an int64.
const maxInputLen = 18

// Phase is the controller's position in the turn state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnswering
	PhaseFeedback
	PhaseEnded
)

// String returns a lower-case label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// QuestionSource produces the next question for a session.
type QuestionSource interface {
	Generate(settings model.Settings) model.Question
}

// Recorder receives session lifecycle events. Calls are made with the
// controller's lock held, in event order, possibly from timer goroutines.
type Recorder interface {
	BeginSession(ctx context.Context, info model.SessionInfo) error
	RecordTurn(ctx context.Context, result model.TurnResult) error
	EndSession(ctx context.Context, id string, endedAt time.Time, score model.Score) error
}

// State is a point-in-time view of the controller for rendering.
type State struct {
	SessionID     string
	Phase         Phase
	Question      *model.Question
	Input         string
	Feedback      model.Feedback
	Score         model.Score
	Turn          int
	TurnStartedAt time.Time
	TurnDuration  time.Duration
	Settings      model.Settings
}

// Remaining returns the countdown left for the current turn at now.
func (s State) Remaining(now time.Time) time.Duration {
	if s.Phase != PhaseAnswering {
		return 0
	}
	left := s.TurnDuration - now.Sub(s.TurnStartedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source and timer factory.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithFeedbackPause sets the delay between a resolution and the next question.
func WithFeedbackPause(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.pause = d
		}
	}
}

// WithRecorder attaches a recorder for session and turn events.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the state of one practice session at a time.
// All methods are safe to call concurrently with its own timers.
type Controller struct {
	source   QuestionSource
	clock    Clock
	pause    time.Duration
	recorder Recorder
	logger   *slog.Logger
	updates  chan struct{}

	mu            sync.Mutex
	generation    uint64
	sessionID     string
	settings      model.Settings
	phase         Phase
	score         model.Score
	question      *model.Question
	input         []byte
	feedback      model.Feedback
	turn          int
	turnStartedAt time.Time
	deadline      Timer
	pauseTimer    Timer
}

// New constructs a Controller drawing questions from source.
func New(source QuestionSource, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		clock:   RealClock(),
		pause:   DefaultFeedbackPause,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		updates: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Updates signals after every state change. Signals coalesce; read State for the details.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Start begins a new session with pre-validated settings, discarding any running one.
func (c *Controller) Start(settings model.Settings) {
	c.mu.Lock()
	c.stopTimersLocked()
	c.generation++
	c.sessionID = uuid.NewString()
	c.settings = settings.Normalized()
	c.score = model.Score{}
	c.phase = PhaseAnswering
	c.turn = 0
	c.nextTurnLocked()
	info := model.SessionInfo{ID: c.sessionID, StartedAt: c.turnStartedAt, Settings: c.settings}
	if c.recorder != nil {
		if err := c.recorder.BeginSession(context.Background(), info); err != nil {
			c.logger.Error("failed to record session start", "session", info.ID, "error", err)
		}
	}
	c.mu.Unlock()

	c.logger.Info("session started",
		"session", info.ID,
		"operations", model.FormatOperations(info.Settings.Operations),
		"time_per_question", info.Settings.TimePerQuestion,
		"digits", info.Settings.Digits,
	)
	c.notify()
}

// InputDigit appends a digit to the answer buffer. It reports whether the rune was accepted.
func (c *Controller) InputDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	c.mu.Lock()
	if !c.acceptingLocked() || len(c.input) >= maxInputLen {
		c.mu.Unlock()
		return false
	}
	c.input = append(c.input, byte(r))
	c.mu.Unlock()
	c.notify()
	return true
}

// InputBackspace removes the last typed digit.
func (c *Controller) InputBackspace() {
	c.mu.Lock()
	if !c.acceptingLocked() || len(c.input) == 0 {
		c.mu.Unlock()
		return
	}
	c.input = c.input[:len(c.input)-1]
	c.mu.Unlock()
	c.notify()
}

// ConfirmAnswer checks the buffer against the active question and resolves the turn.
// An empty buffer is ignored.
func (c *Controller) ConfirmAnswer() {
	c.mu.Lock()
	if !c.acceptingLocked() || len(c.input) == 0 {
		c.mu.Unlock()
		return
	}
	parsed, err := strconv.ParseInt(string(c.input), 10, 64)
	correct := err == nil && parsed == int64(c.question.Answer)
	result, ok := c.resolveLocked(correct, false)
	c.mu.Unlock()
	if ok {
		c.afterResolve(result)
	}
}

// Timeout resolves the current turn as incorrect if it is still open.
func (c *Controller) Timeout() {
	c.mu.Lock()
	c.expireLocked(c.generation, c.turn)
}

// End stops the session, cancels pending timers and returns the final score.
func (c *Controller) End() model.Score {
	c.mu.Lock()
	if c.phase == PhaseIdle || c.phase == PhaseEnded {
		score := c.score
		c.mu.Unlock()
		return score
	}
	c.stopTimersLocked()
	c.generation++
	c.phase = PhaseEnded
	c.question = nil
	c.input = nil
	c.feedback = model.FeedbackNone
	id, score := c.sessionID, c.score
	if c.recorder != nil {
		if err := c.recorder.EndSession(context.Background(), id, c.clock.Now(), score); err != nil {
			c.logger.Error("failed to record session end", "session", id, "error", err)
		}
	}
	c.mu.Unlock()

	c.logger.Info("session ended", "session", id, "correct", score.Correct, "incorrect", score.Incorrect)
	c.notify()
	return score
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		SessionID:     c.sessionID,
		Phase:         c.phase,
		Input:         string(c.input),
		Feedback:      c.feedback,
		Score:         c.score,
		Turn:          c.turn,
		TurnStartedAt: c.turnStartedAt,
		TurnDuration:  c.settings.TimePerQuestion,
		Settings:      c.settings,
	}
	if c.question != nil {
		q := *c.question
		st.Question = &q
	}
	return st
}

func (c *Controller) acceptingLocked() bool {
	return c.phase == PhaseAnswering && c.feedback == model.FeedbackNone && c.question != nil
}

// expireLocked is entered with mu held and releases it.
func (c *Controller) expireLocked(generation uint64, turn int) {
	if generation != c.generation || turn != c.turn || !c.acceptingLocked() {
		c.mu.Unlock()
		return
	}
	result, ok := c.resolveLocked(false, true)
	c.mu.Unlock()
	if ok {
		c.afterResolve(result)
	}
}

// resolveLocked settles the active turn at most once.
func (c *Controller) resolveLocked(correct, timedOut bool) (model.TurnResult, bool) {
	if c.feedback != model.FeedbackNone || c.phase != PhaseAnswering {
		return model.TurnResult{}, false
	}
	if c.deadline != nil {
		c.deadline.Stop()
		c.deadline = nil
	}
	now := c.clock.Now()
	result := model.TurnResult{
		SessionID:    c.sessionID,
		Turn:         c.turn,
		Question:     *c.question,
		Input:        string(c.input),
		Correct:      correct,
		TimedOut:     timedOut,
		ResponseTime: now.Sub(c.turnStartedAt),
		ResolvedAt:   now,
	}
	if correct {
		c.score.Correct++
		c.feedback = model.FeedbackCorrect
	} else {
		c.score.Incorrect++
		c.feedback = model.FeedbackIncorrect
	}
	c.input = nil
	c.phase = PhaseFeedback
	if c.recorder != nil {
		if err := c.recorder.RecordTurn(context.Background(), result); err != nil {
			c.logger.Error("failed to record turn", "session", result.SessionID, "turn", result.Turn, "error", err)
		}
	}

	generation, turn := c.generation, c.turn
	c.pauseTimer = c.clock.AfterFunc(c.pause, func() {
		c.advance(generation, turn)
	})
	return result, true
}

func (c *Controller) afterResolve(result model.TurnResult) {
	c.logger.Debug("turn resolved",
		"session", result.SessionID,
		"turn", result.Turn,
		"question", result.Question.String(),
		"input", result.Input,
		"correct", result.Correct,
		"timed_out", result.TimedOut,
		"response_ms", result.ResponseTime.Milliseconds(),
	)
	c.notify()
}

// advance installs the next question once the feedback pause for turn elapses.
func (c *Controller) advance(generation uint64, turn int) {
	c.mu.Lock()
	if generation != c.generation || c.phase != PhaseFeedback || turn != c.turn {
		c.mu.Unlock()
		return
	}
	c.pauseTimer = nil
	c.phase = PhaseAnswering
	c.nextTurnLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) nextTurnLocked() {
	c.turn++
	q := c.source.Generate(c.settings)
	c.question = &q
	c.input = nil
	c.feedback = model.FeedbackNone
	c.turnStartedAt = c.clock.Now()

	generation, turn := c.generation, c.turn
	c.deadline = c.clock.AfterFunc(c.settings.TimePerQuestion, func() {
		c.mu.Lock()
		c.expireLocked(generation, turn)
	})
}

func (c *Controller) stopTimersLocked() {
	if c.deadline != nil {
		c.deadline.Stop()
		c.deadline = nil
	}
	if c.pauseTimer != nil {
		c.pauseTimer.Stop()
		c.pauseTimer = nil
	}
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
