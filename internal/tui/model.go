// Package tui renders the conversion form in the terminal
package tui

import (
	"context"
	"fmt"
	"strings"

	"fxconvert/internal/client"
	"fxconvert/internal/controller"
	"fxconvert/internal/form"
	"fxconvert/internal/i18n"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	focusSource = iota
	focusTarget
	focusAmount
	focusSubmit
	focusCount
)

// stateMsg carries the controller state once a lookup resolves
type stateMsg struct {
	state controller.State
}

// Model is the bubbletea model of the conversion form
type Model struct {
	ctx        context.Context
	form       *form.Form
	ctrl       *controller.Controller
	normalizer *i18n.LocaleNormalizer
	inputs     []textinput.Model
	focused    int
	target     string
	styles     Styles
}

// New creates the form model
func New(ctx context.Context, f *form.Form, ctrl *controller.Controller, normalizer *i18n.LocaleNormalizer) Model {
	inputs := make([]textinput.Model, focusSubmit)

	inputs[focusSource] = textinput.New()
	inputs[focusSource].Placeholder = "EUR"
	inputs[focusSource].Width = 6

	inputs[focusTarget] = textinput.New()
	inputs[focusTarget].Placeholder = "USD"
	inputs[focusTarget].Width = 6

	inputs[focusAmount] = textinput.New()
	inputs[focusAmount].Placeholder = "0.00"
	if sym, err := normalizer.Symbols(f.Amount.Locale()); err == nil {
		inputs[focusAmount].Placeholder = "0" + sym.Decimal + "00"
	}
	inputs[focusAmount].CharLimit = 32
	inputs[focusAmount].Width = 24

	inputs[focusSource].Focus()

	return Model{
		ctx:        ctx,
		form:       f,
		ctrl:       ctrl,
		normalizer: normalizer,
		inputs:     inputs,
		focused:    focusSource,
		styles:     DefaultStyles(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "enter":
			return m.submit()
		}
	case stateMsg:
		return m, nil
	}

	if m.focused == focusSubmit {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	m.applyFilter(m.focused)
	return m, cmd
}

// applyFilter pushes the input's text through its field and shows what the field kept
func (m *Model) applyFilter(idx int) {
	raw := m.inputs[idx].Value()
	var kept string
	switch idx {
	case focusSource:
		kept = m.form.Source.SetValue(raw)
	case focusTarget:
		kept = m.form.Target.SetValue(raw)
	case focusAmount:
		kept = m.form.Amount.SetRaw(raw)
	default:
		return
	}
	if kept != raw {
		m.inputs[idx].SetValue(kept)
	}
}

func (m *Model) blur(idx int) {
	switch idx {
	case focusSource:
		m.form.Source.Blur()
	case focusTarget:
		m.form.Target.Blur()
	case focusAmount:
		m.form.Amount.Blur()
		m.inputs[focusAmount].SetValue(m.form.Amount.Raw())
	}
	if idx < focusSubmit {
		m.inputs[idx].Blur()
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.blur(m.focused)
	m.focused = (m.focused + delta + focusCount) % focusCount
	if m.focused < focusSubmit {
		return m.inputs[m.focused].Focus()
	}
	return nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if controller.IsLoading(m.ctrl.State()) {
		return m, nil
	}

	m.blur(m.focused)
	if m.focused < focusSubmit {
		m.inputs[m.focused].Focus()
	}

	req, err := m.form.Request()
	m.inputs[focusAmount].SetValue(m.form.Amount.Raw())
	if err != nil {
		return m, nil
	}
	if err := m.ctrl.Start(req); err != nil {
		return m, nil
	}
	m.target = req.TargetCurrency

	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		state, err := ctrl.Execute(ctx, req)
		if err != nil {
			return nil
		}
		return stateMsg{state: state}
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Currency converter"))
	b.WriteString("\n")

	fields := []struct {
		label string
		err   string
	}{
		{m.form.Source.Label, m.form.Source.VisibleError()},
		{m.form.Target.Label, m.form.Target.VisibleError()},
		{m.form.Amount.Label, m.form.Amount.VisibleError()},
	}
	for i, f := range fields {
		label := m.styles.Label
		if m.focused == i {
			label = m.styles.FocusedLabel
		}
		b.WriteString(label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if f.err != "" {
			b.WriteString(m.styles.FieldError.Render(f.err))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.submitView())
	b.WriteString("\n")

	switch s := m.ctrl.State().(type) {
	case controller.Succeeded:
		b.WriteString(m.styles.Status.Render(m.resultView(s.Result)))
		b.WriteString("\n")
	case controller.Failed:
		b.WriteString(m.styles.Alert.Render(m.errorView(s.Err)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("tab/shift+tab: move \u2022 enter: convert \u2022 esc: quit"))
	return b.String()
}

func (m Model) submitView() string {
	if controller.IsLoading(m.ctrl.State()) {
		return m.styles.DisabledButton.Render("Converting...")
	}
	if m.focused == focusSubmit {
		return m.styles.FocusedButton.Render("Convert")
	}
	return m.styles.Button.Render("Convert")
}

func (m Model) resultView(r client.ConversionResult) string {
	locale := m.form.Amount.Locale()
	amount, err := m.normalizer.FormatForDisplay(r.ConvertedAmount, locale)
	if err != nil {
		amount = r.ConvertedAmount
	}
	return fmt.Sprintf("Converted amount: %s %s\nRate date: %s",
		amount, m.target, m.normalizer.FormatDate(r.Date, locale))
}

func (m Model) errorView(e *client.ConversionError) string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	labels := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		labels = append(labels, m.form.Label(f))
	}
	return fmt.Sprintf("%s\nInvalid fields: %s", e.Message, strings.Join(labels, ", "))
}
