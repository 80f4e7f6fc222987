// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathrun/internal/model"
	"github.com/verte-zerg/mathrun/internal/session"
	"github.com/verte-zerg/mathrun/internal/stats"
	"github.com/verte-zerg/mathrun/internal/store"
)

// refreshInterval drives countdown redraws between controller updates.
const refreshInterval = 100 * time.Millisecond

type screen int

const (
	screenSetup screen = iota
	screenGame
	screenSummary
)

// updateMsg arrives when the controller signalled a state change.
type updateMsg struct{ sessionID string }

// tickMsg redraws the countdown of a running session.
type tickMsg struct{ sessionID string }

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctrl   *session.Controller
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time

	screen    screen
	autoStart bool
	setup     setupForm
	state     session.State

	report    stats.Report
	reportErr string
	viewport  viewport.Model

	width  int
	height int
}

// NewModel constructs the practice UI. The setup form is seeded from cfg;
// with autoStart a valid cfg starts a session right away.
func NewModel(ctrl *session.Controller, st *store.Store, logger *slog.Logger, cfg model.Config, autoStart bool) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Model{
		ctrl:      ctrl,
		store:     st,
		logger:    logger,
		now:       time.Now,
		autoStart: autoStart,
		setup:     newSetupForm(cfg),
		viewport:  viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.autoStart {
		return m.setup.focus()
	}
	settings, err := m.setup.settings()
	if err != nil {
		m.setup.err = err
		return m.setup.focus()
	}
	return m.startSession(settings)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case updateMsg:
		if m.screen != screenGame || msg.sessionID != m.state.SessionID {
			return m, nil
		}
		m.state = m.ctrl.State()
		return m, waitForUpdate(m.ctrl.Updates(), msg.sessionID)
	case tickMsg:
		if m.screen != screenGame || msg.sessionID != m.state.SessionID {
			return m, nil
		}
		m.state = m.ctrl.State()
		return m, tick(msg.sessionID)
	case tea.KeyMsg:
		switch m.screen {
		case screenGame:
			return m.updateGame(msg)
		case screenSummary:
			return m.updateSummary(msg)
		default:
			return m.updateSetup(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body, help string
	switch m.screen {
	case screenGame:
		body, help = m.gameView(), renderHelp(keys.gameHelp())
	case screenSummary:
		body, help = m.summaryView(), renderHelp(keys.summaryHelp())
	default:
		body, help = m.setup.view(), renderHelp(keys.setupHelp())
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + help
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, help)
	return main + "\n" + footer
}

func (m *Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Start):
		settings, err := m.setup.settings()
		if err != nil {
			m.setup.err = err
			return m, nil
		}
		return m, m.startSession(settings)
	}
	return m, m.setup.update(msg)
}

func (m *Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.End()
		return m, tea.Quit
	case key.Matches(msg, keys.End):
		m.finishSession()
		return m, nil
	case key.Matches(msg, keys.Confirm):
		m.ctrl.ConfirmAnswer()
	case key.Matches(msg, keys.Backspace):
		m.ctrl.InputBackspace()
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.ctrl.InputDigit(r)
		}
	}
	m.state = m.ctrl.State()
	return m, nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Leave):
		return m, tea.Quit
	case key.Matches(msg, keys.Again):
		m.screen = screenSetup
		m.setup.err = nil
		return m, m.setup.focus()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) startSession(settings model.Settings) tea.Cmd {
	m.setup.blur()
	m.setup.err = nil
	m.ctrl.Start(settings)
	m.state = m.ctrl.State()
	m.screen = screenGame
	return tea.Batch(waitForUpdate(m.ctrl.Updates(), m.state.SessionID), tick(m.state.SessionID))
}

func (m *Model) finishSession() {
	score := m.ctrl.End()
	m.state = m.ctrl.State()
	m.screen = screenSummary
	m.reportErr = ""

	report, err := stats.BuildReport(context.Background(), m.store, m.state.SessionID)
	if err != nil {
		m.logger.Error("failed to build report", "session", m.state.SessionID, "error", err)
		m.reportErr = err.Error()
		report = stats.Report{SessionID: m.state.SessionID, Settings: m.state.Settings, Score: score}
	}
	m.report = report

	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, report); err != nil {
		m.logger.Error("failed to render summary", "session", m.state.SessionID, "error", err)
	}
	m.viewport.SetContent(buf.String())
	m.viewport.GotoTop()
	m.updateLayout()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.setup.setWidth(m.width)
	m.viewport.Width = min(m.width, 80)
	m.viewport.Height = max(3, m.height-summaryChromeHeight)
}

func waitForUpdate(ch <-chan struct{}, sessionID string) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return updateMsg{sessionID: sessionID}
	}
}

func tick(sessionID string) tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{sessionID: sessionID}
	})
}
