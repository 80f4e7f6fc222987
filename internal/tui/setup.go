package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathrun/internal/model"
)

const (
	fieldOperations = iota
	fieldTime
	fieldDigits
	fieldCount
)

// setupForm collects the settings of the next session.
type setupForm struct {
	enabled  map[model.Operation]bool
	opCursor int
	inputs   []textinput.Model // time, digits
	field    int
	err      error
}

func newSetupForm(cfg model.Config) setupForm {
	f := setupForm{
		enabled: make(map[model.Operation]bool, len(model.AllOperations)),
		inputs: []textinput.Model{
			newSetupInput("Seconds per question: ", "3"),
			newSetupInput("Digits per number:    ", "2"),
		},
	}
	// An unparseable list leaves every operation off and validation reports it.
	ops, _ := model.ParseOperations(cfg.Operations)
	for _, op := range ops {
		f.enabled[op] = true
	}
	if cfg.TimeSeconds > 0 {
		f.inputs[0].SetValue(strconv.FormatFloat(cfg.TimeSeconds, 'f', -1, 64))
	}
	if cfg.Digits > 0 {
		f.inputs[1].SetValue(strconv.Itoa(cfg.Digits))
	}
	return f
}

func newSetupInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 6
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (f *setupForm) operations() []model.Operation {
	ops := make([]model.Operation, 0, len(f.enabled))
	for _, op := range model.AllOperations {
		if f.enabled[op] {
			ops = append(ops, op)
		}
	}
	return ops
}

// settings validates the form. Every problem is reported at once.
func (f *setupForm) settings() (model.Settings, error) {
	var errs []error
	s := model.Settings{Operations: f.operations()}

	if raw := strings.TrimSpace(f.inputs[0].Value()); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q is not a number", model.ErrInvalidTime, raw))
		} else {
			s.TimePerQuestion = model.SecondsToDuration(seconds)
		}
	}
	if raw := strings.TrimSpace(f.inputs[1].Value()); raw != "" {
		digits, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q is not a whole number", model.ErrInvalidDigits, raw))
		} else {
			s.Digits = digits
		}
	}
	if len(errs) == 0 {
		if err := s.Validate(); err != nil {
			return model.Settings{}, err
		}
		return s, nil
	}
	return model.Settings{}, errors.Join(errs...)
}

func (f *setupForm) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Next):
		return f.setField(f.field + 1)
	case key.Matches(msg, keys.Prev):
		return f.setField(f.field - 1)
	}
	if f.field == fieldOperations {
		f.updateOperations(msg)
		return nil
	}
	var cmd tea.Cmd
	idx := f.field - fieldTime
	f.inputs[idx], cmd = f.inputs[idx].Update(msg)
	return cmd
}

func (f *setupForm) updateOperations(msg tea.KeyMsg) {
	count := len(model.AllOperations)
	switch {
	case key.Matches(msg, keys.Left):
		f.opCursor = (f.opCursor + count - 1) % count
	case key.Matches(msg, keys.Right):
		f.opCursor = (f.opCursor + 1) % count
	case key.Matches(msg, keys.Toggle):
		idx := f.opCursor
		if s := msg.String(); s >= "1" && s <= "4" {
			idx = int(s[0] - '1')
			f.opCursor = idx
		}
		op := model.AllOperations[idx]
		f.enabled[op] = !f.enabled[op]
		f.err = nil
	}
}

func (f *setupForm) setField(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	f.field = idx
	return f.focus()
}

func (f *setupForm) focus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.field-fieldTime {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *setupForm) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *setupForm) setWidth(width int) {
	for i := range f.inputs {
		promptWidth := lipgloss.Width(f.inputs[i].Prompt)
		f.inputs[i].Width = max(6, min(width-promptWidth-2, 12))
	}
}

func (f *setupForm) view() string {
	lines := []string{titleStyle.Render("mathrun"), "", f.operationsView(), ""}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != nil {
		lines = append(lines, "")
		for _, line := range strings.Split(f.err.Error(), "\n") {
			lines = append(lines, errorStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (f *setupForm) operationsView() string {
	label := "Operations"
	if f.field == fieldOperations {
		label = inputStyle.Render(label)
	} else {
		label = pendingStyle.Render(label)
	}
	boxes := make([]string, 0, len(model.AllOperations))
	for i, op := range model.AllOperations {
		text := fmt.Sprintf("%d %s", i+1, op.Symbol())
		style := unselectedOpStyle
		if f.enabled[op] {
			style = selectedOpStyle
		}
		if f.field == fieldOperations && i == f.opCursor {
			text = "[" + text + "]"
		}
		boxes = append(boxes, style.Render(text))
	}
	return label + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
