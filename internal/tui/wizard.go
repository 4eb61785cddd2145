// Package tui tiene las vistas de terminal del cliente `adopt`.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/platform/httpclient"
)

const progressWidth = 24

var checkboxOptions = []string{"false", "true"}

type submittedMsg struct {
	wiz *applications.Wizard
	app applications.Application
	err error
}

// WizardModel es el formulario de adopción en terminal.
// enter avanza (o envía en la última sección), esc vuelve, tab cambia de campo,
// ←/→/espacio eligen opción en los campos de selección.
type WizardModel struct {
	ctx   context.Context
	wiz   *applications.Wizard
	sub   applications.Submitter
	title string

	fields []applications.Field
	inputs []textinput.Model
	focus  int

	spinner    spinner.Model
	submitting bool
	message    string

	result   *applications.Application
	quitting bool
}

func NewWizardModel(ctx context.Context, wiz *applications.Wizard, sub applications.Submitter, title string) WizardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusStyle

	m := WizardModel{ctx: ctx, wiz: wiz, sub: sub, title: title, spinner: sp}
	m.buildInputs()
	return m
}

func (m WizardModel) Init() tea.Cmd { return textinput.Blink }

// Wizard expone el estado de dominio (tests y borradores).
func (m WizardModel) Wizard() *applications.Wizard { return m.wiz }

// Submitted devuelve la solicitud creada, si el envío terminó bien.
func (m WizardModel) Submitted() (applications.Application, bool) {
	if m.result == nil {
		return applications.Application{}, false
	}
	return *m.result, true
}

func (m WizardModel) Cancelled() bool { return m.quitting }

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.submitting = false
		m.wiz = msg.wiz
		if msg.err != nil {
			m.message = httpclient.MessageOf(msg.err)
			m.buildInputs()
			return m, nil
		}
		app := msg.app
		m.result = &app
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.submitting {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil

	case tea.KeyEsc:
		m.commit()
		if m.wiz.Retreat() {
			m.message = ""
			m.buildInputs()
		}
		return m, nil

	case tea.KeyEnter:
		m.commit()
		if m.wiz.CanSubmit() {
			m.submitting = true
			m.message = ""
			// el envío corre fuera del loop de Update sobre una copia del wizard
			clone := applications.RestoreWizard(m.wiz.Snapshot())
			return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, clone, m.sub))
		}
		if m.wiz.Advance() {
			m.message = ""
			m.buildInputs()
		} else {
			m.message = applications.ErrValidation.Error()
			m.focusFirstError()
		}
		return m, nil
	}

	f := m.fields[m.focus]
	if opts := optionsOf(f); opts != nil {
		switch msg.Type {
		case tea.KeyRight, tea.KeySpace:
			m.cycle(opts, 1)
		case tea.KeyLeft:
			m.cycle(opts, -1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func submitCmd(ctx context.Context, wiz *applications.Wizard, sub applications.Submitter) tea.Cmd {
	return func() tea.Msg {
		app, err := wiz.Submit(ctx, sub)
		return submittedMsg{wiz: wiz, app: app, err: err}
	}
}

// commit pasa al wizard los valores que cambiaron.
func (m *WizardModel) commit() {
	vals := m.wiz.Values()
	for i, f := range m.fields {
		cur, _ := vals.Get(f.Name)
		v := m.inputs[i].Value()
		if f.Kind == applications.KindCheckbox && v == "" {
			v = "false"
		}
		if v != cur {
			_ = m.wiz.Set(f.Name, v)
		}
	}
}

func (m *WizardModel) buildInputs() {
	m.fields = applications.Fields(m.wiz.Current())
	m.inputs = make([]textinput.Model, len(m.fields))
	vals := m.wiz.Values()
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.Placeholder = placeholder(f)
		if f.MaxLen > 0 {
			ti.CharLimit = f.MaxLen
		}
		v, _ := vals.Get(f.Name)
		if f.Kind == applications.KindCheckbox && v == "false" {
			v = ""
		}
		ti.SetValue(v)
		m.inputs[i] = ti
	}
	m.focus = 0
	m.inputs[0].Focus()
}

func (m *WizardModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// moveFocus salta los campos deshabilitados.
func (m *WizardModel) moveFocus(delta int) {
	m.commit()
	n := len(m.fields)
	for step := 1; step <= n; step++ {
		i := ((m.focus+delta*step)%n + n) % n
		if !m.wiz.FieldDisabled(m.fields[i].Name) {
			m.setFocus(i)
			return
		}
	}
}

func (m *WizardModel) focusFirstError() {
	errs := m.wiz.Errors()
	for i, f := range m.fields {
		if _, ok := errs[f.Name]; ok {
			m.setFocus(i)
			return
		}
	}
}

func (m *WizardModel) cycle(opts []string, delta int) {
	cur := m.inputs[m.focus].Value()
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = ((idx+delta)%len(opts) + len(opts)) % len(opts)
	}
	m.inputs[m.focus].SetValue(opts[idx])
	m.commit()
}

func optionsOf(f applications.Field) []string {
	switch f.Kind {
	case applications.KindCheckbox:
		return checkboxOptions
	case applications.KindSelect, applications.KindYesNo:
		return f.Options
	}
	return nil
}

func placeholder(f applications.Field) string {
	switch f.Kind {
	case applications.KindCheckbox:
		return "← → to toggle"
	case applications.KindSelect, applications.KindYesNo:
		return strings.Join(f.Options, " / ")
	case applications.KindNumber:
		return fmt.Sprintf("number ≥ %d", f.Min)
	}
	return ""
}

func (m WizardModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(fmt.Sprintf("%d/%d  %s", int(m.wiz.Current())+1, applications.SectionCount, m.wiz.Current().Title())))
	b.WriteString("  ")
	b.WriteString(progressBar(m.wiz.Progress()))
	b.WriteString("\n\n")

	errs := m.wiz.Errors()
	for i, f := range m.fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		disabled := m.wiz.FieldDisabled(f.Name)
		switch {
		case disabled:
			b.WriteString(disabledStyle.Render(label + " (n/a)"))
		case i == m.focus:
			b.WriteString(focusStyle.Render(label))
		default:
			b.WriteString(labelStyle.Render(label))
		}
		b.WriteString("\n")

		if !disabled {
			if optionsOf(f) != nil {
				b.WriteString(renderOption(f, m.inputs[i].Value(), i == m.focus))
			} else {
				b.WriteString(m.inputs[i].View())
			}
			b.WriteString("\n")
		}
		if e, ok := errs[f.Name]; ok {
			b.WriteString(errorStyle.Render("  " + e))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Submitting application...\n")
	case m.message != "":
		b.WriteString(errorStyle.Render(m.message) + "\n")
	}

	help := "tab next field • ←/→ choose • enter continue • esc back • ctrl+c quit"
	if m.wiz.CanSubmit() {
		help = "tab next field • ←/→ choose • enter submit • esc back • ctrl+c quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func renderOption(f applications.Field, v string, focused bool) string {
	if f.Kind == applications.KindCheckbox {
		box := "[ ]"
		if v == "true" {
			box = okStyle.Render("[x]")
		}
		return "  " + box
	}
	if v == "" {
		v = "-"
	}
	out := "  ‹ " + v + " ›"
	if focused {
		return focusStyle.Render(out)
	}
	return out
}

func progressBar(pct int) string {
	full := pct * progressWidth / 100
	return barFull.Render(strings.Repeat("█", full)) +
		barEmpty.Render(strings.Repeat("░", progressWidth-full)) +
		fmt.Sprintf(" %d%%", pct)
}
