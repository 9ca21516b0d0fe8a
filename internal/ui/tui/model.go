// Package tui runs the manuscript submission wizard in a terminal.
package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

// Messages shown by the terminal wizard.
const (
	MsgPublishersFailed = "Daftar penerbit tidak dapat dimuat."
	MsgStepLocked       = "Lengkapi langkah sebelumnya terlebih dahulu."
	MsgFileUnreadable   = "File tidak ditemukan atau tidak dapat dibaca."
)

// Backend is the submission endpoint the wizard talks to. *client.Client
// implements it.
type Backend interface {
	wizard.Submitter
	Publishers(ctx context.Context) ([]wizard.Publisher, error)
}

type publishersMsg struct {
	publishers []wizard.Publisher
	err        error
}

type submittedMsg struct {
	wiz wizard.Wizard
	err error
}

// Model is the bubbletea model wrapping one wizard.Wizard.
type Model struct {
	ctx     context.Context
	backend Backend
	orch    *wizard.Orchestrator
	logger  *logging.Logger

	wiz     wizard.Wizard
	loading bool
	pubErr  string
	notice  string
	fileErr string

	// committed file path; the input may hold an edited, unchecked path
	filePath string

	cursor int
	focus  int
	texts  map[model.Field]*textinput.Model
	areas  map[model.Field]*textarea.Model

	width    int
	quitting bool
}

// NewModel builds a wizard model. Publishers are loaded by Init.
func NewModel(ctx context.Context, backend Backend, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.New("tui", logging.INFO, io.Discard)
	}
	m := Model{
		ctx:     ctx,
		backend: backend,
		orch:    &wizard.Orchestrator{Submitter: backend, Logger: logger},
		logger:  logger,
		wiz:     wizard.New(nil, ""),
		loading: true,
		texts:   make(map[model.Field]*textinput.Model),
		areas:   make(map[model.Field]*textarea.Model),
	}
	for _, specs := range stepFields {
		for _, spec := range specs {
			switch spec.kind {
			case kindText, kindFile:
				in := textinput.New()
				in.Placeholder = spec.placeholder
				in.Prompt = "> "
				in.Width = 48
				m.texts[spec.field] = &in
			case kindArea:
				area := textarea.New()
				area.Placeholder = spec.placeholder
				area.ShowLineNumbers = false
				area.SetWidth(60)
				area.SetHeight(4)
				m.areas[spec.field] = &area
			}
		}
	}
	return m
}

// Wizard returns the current wizard value.
func (m Model) Wizard() wizard.Wizard {
	return m.wiz
}

func (m Model) Init() tea.Cmd {
	return m.loadPublishers
}

func (m Model) loadPublishers() tea.Msg {
	publishers, err := m.backend.Publishers(m.ctx)
	return publishersMsg{publishers: publishers, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for _, in := range m.texts {
			in.Width = clampWidth(msg.Width-8, 48)
		}
		for _, area := range m.areas {
			area.SetWidth(clampWidth(msg.Width-4, 60))
		}
		return m, nil
	case publishersMsg:
		m.loading = false
		if msg.err != nil {
			m.pubErr = MsgPublishersFailed
			m.logger.Error("wizard", "publisher list unavailable", msg.err, nil)
			return m, nil
		}
		m.pubErr = ""
		m.wiz.Publishers = append([]wizard.Publisher(nil), msg.publishers...)
		return m, nil
	case submittedMsg:
		m.wiz = msg.wiz
		if m.wiz.Phase == wizard.PhaseSucceeded {
			m.resetInputs()
		}
		cmd := m.setFocus(0)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.wiz.Phase {
	case wizard.PhaseConfirming:
		switch msg.String() {
		case "enter", "y":
			return m.confirm()
		case "esc", "n":
			m.wiz = m.wiz.Cancel()
			cmd := m.setFocus(0)
			return m, cmd
		}
		return m, nil
	case wizard.PhaseSubmitting:
		return m, nil
	case wizard.PhaseSucceeded:
		switch msg.String() {
		case "enter":
			m.wiz = m.wiz.Restart()
			m.resetInputs()
			cmd := m.setFocus(0)
			return m, cmd
		case "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m.handleEditingKey(msg)
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	key := msg.String()
	switch key {
	case "ctrl+n":
		m.commitFile()
		if m.wiz.Step == model.LastStep {
			m.wiz = m.wiz.RequestSubmit()
		} else {
			m.wiz = m.wiz.Next()
		}
		cmd := m.setFocus(0)
		return m, cmd
	case "ctrl+p":
		m.commitFile()
		m.wiz = m.wiz.Back()
		cmd := m.setFocus(0)
		return m, cmd
	case "ctrl+s":
		m.commitFile()
		m.wiz = m.wiz.RequestSubmit()
		cmd := m.setFocus(0)
		return m, cmd
	case "alt+1", "alt+2", "alt+3", "alt+4":
		m.commitFile()
		target := model.Step(key[len(key)-1] - '0')
		next, err := m.wiz.GoTo(target)
		if err != nil {
			m.notice = MsgStepLocked
			return m, nil
		}
		m.wiz = next
		cmd := m.setFocus(0)
		return m, cmd
	case "tab":
		m.commitFile()
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	case "shift+tab":
		m.commitFile()
		cmd := m.setFocus(m.focus - 1)
		return m, cmd
	case "esc":
		m.wiz = m.wiz.Dismiss()
		return m, nil
	}

	if m.wiz.Step == model.StepPublishers {
		return m.handlePublisherKey(key)
	}
	return m.handleFieldKey(msg)
}

func (m Model) handlePublisherKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.wiz.Publishers)-1 {
			m.cursor++
		}
	case " ", "enter":
		if m.cursor < len(m.wiz.Publishers) {
			m.wiz = m.wiz.Update(model.TogglePublisher(m.wiz.Publishers[m.cursor].ID))
		}
	}
	return m, nil
}

func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	spec, ok := m.focused()
	if !ok {
		return m, nil
	}
	switch spec.kind {
	case kindChoice:
		current := m.wiz.Form.Value(spec.field)
		switch msg.String() {
		case "right", "l", " ":
			m.wiz = m.wiz.Update(model.Set(spec.field, cycleOption(spec.options, current, 1)))
		case "left", "h":
			m.wiz = m.wiz.Update(model.Set(spec.field, cycleOption(spec.options, current, -1)))
		}
		return m, nil
	case kindFile:
		in := m.texts[spec.field]
		if msg.Type == tea.KeyEnter {
			m.commitFile()
			return m, nil
		}
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	case kindArea:
		area := m.areas[spec.field]
		var cmd tea.Cmd
		*area, cmd = area.Update(msg)
		m.wiz = m.wiz.Update(model.Set(spec.field, area.Value()))
		return m, cmd
	default:
		in := m.texts[spec.field]
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		m.wiz = m.wiz.Update(model.Set(spec.field, in.Value()))
		return m, cmd
	}
}

// confirm hands the confirming wizard to the orchestrator and shows the
// submitting state until the result arrives.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	pending := m.wiz
	submitting, err := pending.Confirm()
	if err != nil {
		return m, nil
	}
	m.wiz = submitting
	ctx, orch := m.ctx, m.orch
	return m, func() tea.Msg {
		next, err := orch.Submit(ctx, pending)
		return submittedMsg{wiz: next, err: err}
	}
}

// commitFile inspects the path typed into the file input and attaches it.
func (m *Model) commitFile() {
	in, ok := m.texts[model.FieldManuscript]
	if !ok {
		return
	}
	path := strings.TrimSpace(in.Value())
	if path == m.filePath {
		return
	}
	m.filePath = path
	m.fileErr = ""
	if path == "" {
		m.wiz = m.wiz.Update(model.Detach())
		return
	}
	upload, err := inspectFile(path)
	if err != nil {
		m.fileErr = MsgFileUnreadable
		m.wiz = m.wiz.Update(model.Detach())
		return
	}
	m.wiz = m.wiz.Update(model.Attach(upload))
}

func (m Model) focused() (fieldSpec, bool) {
	specs := stepFields[m.wiz.Step]
	if m.focus < 0 || m.focus >= len(specs) {
		return fieldSpec{}, false
	}
	return specs[m.focus], true
}

// setFocus moves focus to index i of the current step, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	for _, in := range m.texts {
		in.Blur()
	}
	for _, area := range m.areas {
		area.Blur()
	}
	specs := stepFields[m.wiz.Step]
	if len(specs) == 0 || m.wiz.Phase != wizard.PhaseEditing {
		m.focus = 0
		return nil
	}
	m.focus = (i%len(specs) + len(specs)) % len(specs)
	spec := specs[m.focus]
	switch spec.kind {
	case kindText, kindFile:
		return m.texts[spec.field].Focus()
	case kindArea:
		return m.areas[spec.field].Focus()
	}
	return nil
}

func (m *Model) resetInputs() {
	for _, in := range m.texts {
		in.SetValue("")
	}
	for _, area := range m.areas {
		area.Reset()
	}
	m.filePath = ""
	m.fileErr = ""
	m.cursor = 0
}

func clampWidth(width, limit int) int {
	if width <= 0 || width > limit {
		return limit
	}
	return width
}
