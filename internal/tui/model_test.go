package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathrun/internal/model"
	"github.com/verte-zerg/mathrun/internal/session"
	"github.com/verte-zerg/mathrun/internal/store"
)

type fixedSource struct{}

func (fixedSource) Generate(model.Settings) model.Question {
	return model.Question{Num1: 2, Num2: 3, Operation: model.Addition, Answer: 5}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, cfg model.Config, autoStart bool) *Model {
	t.Helper()
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctrl := session.New(fixedSource{},
		session.WithRecorder(st),
		session.WithFeedbackPause(time.Hour),
	)
	t.Cleanup(func() {
		ctrl.End()
		_ = st.Close()
	})
	return NewModel(ctrl, st, nil, cfg, autoStart)
}

func TestSetupFormSettings(t *testing.T) {
	form := newSetupForm(model.Config{Operations: "-,+", TimeSeconds: 2.5, Digits: 3})
	settings, err := form.settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if len(settings.Operations) != 2 || settings.Operations[0] != model.Addition || settings.Operations[1] != model.Subtraction {
		t.Fatalf("unexpected operations: %v", settings.Operations)
	}
	if settings.TimePerQuestion != 2500*time.Millisecond || settings.Digits != 3 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestSetupFormReportsEveryProblem(t *testing.T) {
	form := newSetupForm(model.Config{})
	form.inputs[0].SetValue("0")
	form.inputs[1].SetValue("12")
	_, err := form.settings()
	for _, want := range []error{model.ErrNoOperations, model.ErrInvalidTime, model.ErrInvalidDigits} {
		if !errors.Is(err, want) {
			t.Fatalf("expected %v in %v", want, err)
		}
	}

	form.inputs[0].SetValue("soon")
	if _, err := form.settings(); !errors.Is(err, model.ErrInvalidTime) {
		t.Fatalf("expected time parse error, got %v", err)
	}
}

func TestSetupToggleOperations(t *testing.T) {
	form := newSetupForm(model.Config{Operations: "+"})
	form.update(runes("3"))
	if !form.enabled[model.Multiplication] {
		t.Fatalf("expected multiplication to be enabled")
	}
	form.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if form.enabled[model.Multiplication] {
		t.Fatalf("expected space to toggle the focused operation off")
	}
	form.update(tea.KeyMsg{Type: tea.KeyLeft})
	form.update(tea.KeyMsg{Type: tea.KeyLeft})
	form.update(runes(" "))
	if form.enabled[model.Addition] {
		t.Fatalf("expected addition to be toggled off")
	}
	if got := form.operations(); len(got) != 0 {
		t.Fatalf("expected no operations, got %v", got)
	}

	form.update(tea.KeyMsg{Type: tea.KeyTab})
	form.update(runes("4"))
	if form.enabled[model.Division] {
		t.Fatalf("digits typed in the time field must not toggle operations")
	}
	if form.inputs[0].Value() != "4" {
		t.Fatalf("expected time input to receive the key, got %q", form.inputs[0].Value())
	}
}

func TestInvalidSetupBlocksStart(t *testing.T) {
	m := newTestModel(t, model.Config{Operations: "", TimeSeconds: 3, Digits: 1}, false)
	m.Init()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenSetup {
		t.Fatalf("expected to stay on setup")
	}
	if !errors.Is(m.setup.err, model.ErrNoOperations) {
		t.Fatalf("expected operations error, got %v", m.setup.err)
	}
	if !strings.Contains(m.View(), model.ErrNoOperations.Error()) {
		t.Fatalf("expected error in view")
	}
}

func TestGameFlow(t *testing.T) {
	m := newTestModel(t, model.Config{Operations: "+", TimeSeconds: 60, Digits: 1}, true)
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected session commands")
	}
	if m.screen != screenGame || m.state.Phase != session.PhaseAnswering {
		t.Fatalf("expected running game, got screen %d phase %v", m.screen, m.state.Phase)
	}
	if !strings.Contains(m.View(), "2 + 3 = ?") {
		t.Fatalf("expected question in view:\n%s", m.View())
	}

	m.Update(runes("x5"))
	if m.state.Input != "5" {
		t.Fatalf("expected digit-only input, got %q", m.state.Input)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.Feedback != model.FeedbackCorrect || m.state.Score.Correct != 1 {
		t.Fatalf("expected correct feedback, got %+v", m.state)
	}
	if !strings.Contains(m.View(), "correct") {
		t.Fatalf("expected feedback in view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenSummary {
		t.Fatalf("expected summary screen")
	}
	if m.report.Score.Correct != 1 || m.reportErr != "" {
		t.Fatalf("unexpected report: %+v %s", m.report, m.reportErr)
	}
	if !strings.Contains(m.View(), "Accuracy") {
		t.Fatalf("expected summary cards in view")
	}

	m.Update(runes("r"))
	if m.screen != screenSetup {
		t.Fatalf("expected setup screen after restart")
	}
}

func TestStaleMessagesIgnored(t *testing.T) {
	m := newTestModel(t, model.Config{Operations: "+", TimeSeconds: 60, Digits: 1}, true)
	m.Init()
	if _, cmd := m.Update(updateMsg{sessionID: "old"}); cmd != nil {
		t.Fatalf("stale update must not re-arm the listener")
	}
	if _, cmd := m.Update(tickMsg{sessionID: "old"}); cmd != nil {
		t.Fatalf("stale tick must not re-arm")
	}
	if _, cmd := m.Update(tickMsg{sessionID: m.state.SessionID}); cmd == nil {
		t.Fatalf("current tick must re-arm")
	}
}

func TestRenderCountdown(t *testing.T) {
	out := renderCountdown(1500*time.Millisecond, 3*time.Second, 20)
	if !strings.Contains(out, "1.5s") {
		t.Fatalf("missing label: %q", out)
	}
	if w := lipgloss.Width(out); w != 20 {
		t.Fatalf("expected width 20, got %d", w)
	}
	if w := lipgloss.Width(renderCountdown(0, 0, 20)); w != 20 {
		t.Fatalf("expected width 20 for empty countdown, got %d", w)
	}
}

func TestRenderScoreBar(t *testing.T) {
	for _, score := range []model.Score{{}, {Correct: 3}, {Correct: 1, Incorrect: 2}} {
		if w := lipgloss.Width(renderScoreBar(score, 30)); w != 30 {
			t.Fatalf("score %+v: expected width 30, got %d", score, w)
		}
	}
}
