// Package ui implements the interactive signal analysis form.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/SigSum/internal/lifecycle"
	"github.com/yildizm/SigSum/internal/signal"
	"github.com/yildizm/SigSum/internal/ui/components"
)

const inputPlaceholder = "e.g. 1, 2, 3, 4, 5"

// FormModel is the bubbletea model for the analysis form: one text input,
// live validation, a submit action and the latest result or error.
type FormModel struct {
	ctx        context.Context
	controller *lifecycle.Controller
	endpoint   string

	input      textinput.Model
	spinner    spinner.Model
	validation signal.ValidationResult

	// points in the last submitted signal, shown on the average card
	submitted int

	width    int
	quitting bool
	styles   *Styles
}

// NewFormModel creates a form bound to a lifecycle controller. endpoint is
// shown in the header and may be empty.
func NewFormModel(ctx context.Context, controller *lifecycle.Controller, endpoint string) *FormModel {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Width = 48
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := GetStyles()
	sp.Style = styles.Loading

	return &FormModel{
		ctx:        ctx,
		controller: controller,
		endpoint:   endpoint,
		input:      ti,
		spinner:    sp,
		styles:     styles,
	}
}

// Init starts the cursor blinking
func (m *FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(min(msg.Width-8, 72), 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if !m.controller.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisSettledMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *FormModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.input.SetValue("")
		m.validation = signal.ValidationResult{}
		m.controller.Reset()
		return m, nil

	case tea.KeyEnter:
		return m.submit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.revalidate()
		if m.controller.State().Status() == lifecycle.StatusFailed {
			m.controller.Reset()
		}
	}
	return m, cmd
}

// submit starts a request when the input is valid and nothing is in flight
func (m *FormModel) submit() (tea.Model, tea.Cmd) {
	if !m.CanSubmit() {
		m.revalidate()
		return m, nil
	}

	data, err := signal.Parse(m.input.Value())
	if err != nil {
		m.validation = signal.ValidationResult{Valid: false, Message: err.Error()}
		return m, nil
	}

	m.submitted = len(data)
	settle := m.controller.Submit(m.ctx, data)
	return m, tea.Batch(m.spinner.Tick, settleCommand(settle))
}

func (m *FormModel) revalidate() {
	if strings.TrimSpace(m.input.Value()) == "" {
		m.validation = signal.ValidationResult{}
		return
	}
	m.validation = signal.Validate(m.input.Value())
}

// CanSubmit reports whether Enter would start a request
func (m *FormModel) CanSubmit() bool {
	return !m.controller.Loading() && signal.Validate(m.input.Value()).Valid
}

// SetValue replaces the input text and revalidates it
func (m *FormModel) SetValue(s string) {
	m.input.SetValue(s)
	m.revalidate()
}

// View renders the form
func (m *FormModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader(), m.renderInput(), m.renderValidation()}

	switch state := m.controller.State().(type) {
	case lifecycle.Loading:
		sections = append(sections, m.spinner.View()+" "+m.styles.Loading.Render("Analyzing signal..."))
	case lifecycle.Succeeded:
		sections = append(sections, m.renderResult(state.Result))
	case lifecycle.Failed:
		sections = append(sections, m.styles.Error.Render(emoji.GetEmoji("error")+" "+state.Message))
	}

	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *FormModel) renderHeader() string {
	header := m.styles.Title.Render(emoji.GetEmoji("signal") + " Signal Analysis")
	if m.endpoint != "" {
		header += "\n" + m.styles.Subtitle.Render(m.endpoint)
	}
	return header + "\n"
}

func (m *FormModel) renderInput() string {
	style := m.styles.Input
	if m.input.Value() != "" && !m.validation.Valid {
		style = m.styles.InputInvalid
	}
	return style.Render(m.input.View())
}

func (m *FormModel) renderValidation() string {
	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		return m.styles.Muted.Render("Enter integers separated by commas.")
	case m.validation.Valid:
		return m.styles.Valid.Render(emoji.GetEmoji("success") + " Ready to analyze")
	default:
		return m.styles.Invalid.Render(emoji.GetEmoji("warning") + " " + m.validation.Message)
	}
}

func (m *FormModel) renderResult(result signal.Analysis) string {
	dashboard := components.CreateAnalysisStats(&result, m.submitted)
	if m.width > 0 {
		dashboard.FitWidth(m.width)
	}
	return "\n" + dashboard.Render()
}

func (m *FormModel) renderHelp() string {
	keys := "enter analyze • esc clear • ctrl+c quit"
	if m.controller.Loading() {
		keys = "analyzing… • esc cancel • ctrl+c quit"
	}
	return "\n" + m.styles.Help.Render(keys)
}

// Run starts the form in the terminal and blocks until the user quits
func Run(ctx context.Context, controller *lifecycle.Controller, endpoint string) error {
	model := NewFormModel(ctx, controller, endpoint)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
