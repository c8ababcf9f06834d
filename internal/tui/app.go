// Package tui is the terminal front end: a textarea for composing queries,
// an attachment row for staged documents and a scrolling conversation view.
// All orchestration (busy flag, optimistic updates, backend calls) lives in
// internal/app; this package only translates key presses into session calls
// and renders the resulting state.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/app"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the bubbletea state for the chat screen.
type Model struct {
	session *app.Session
	timeout time.Duration

	input      textarea.Model
	picker     filepicker.Model
	pickerOpen bool
	keys       keyMap
	markdown   *MarkdownRenderer

	loading bool
	spinner int
	errText string
	notice  string

	width  int
	height int
}

func New(session *app.Session, timeout time.Duration) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything about your PDFs... (alt+enter for new line)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Model{
		session:  session,
		timeout:  timeout,
		input:    ta,
		picker:   fp,
		keys:     defaultKeyMap(),
		markdown: NewMarkdownRenderer(),
		width:    80,
		height:   24,
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// queryDoneMsg and uploadDoneMsg report the outcome of the single in-flight
// request back to the event loop.
type queryDoneMsg struct{ err error }

type uploadDoneMsg struct {
	count int
	err   error
}

type spinMsg struct{}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.input.SetWidth(ws.Width - 8)
		m.picker.Height = ws.Height - 6
		return m, nil
	}
	if m.pickerOpen {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Paste {
			if paths := pathsFromPaste(string(msg.Runes)); len(paths) > 0 {
				return m, m.attachFiles(paths)
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Enter):
			return m, m.submit()

		case key.Matches(msg, m.keys.Attach):
			if m.session.Busy() {
				m.notice = "still working on the previous request"
				return m, nil
			}
			m.pickerOpen = true
			return m, m.picker.Init()

		case key.Matches(msg, m.keys.Language):
			m.toggleLanguage()
			return m, nil

		case key.Matches(msg, m.keys.RemoveFile):
			m.removeLastAttachment()
			return m, nil
		}

	case queryDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil

	case uploadDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		} else {
			m.notice = fmt.Sprintf("indexed %d document(s)", msg.count)
		}
		return m, nil

	case spinMsg:
		if m.loading {
			m.spinner = (m.spinner + 1) % len(spinnerFrames)
			return m, m.spinCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "ctrl+o":
			m.pickerOpen = false
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.pickerOpen = false
		return m, m.attachFiles([]string{path})
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("%s is not a PDF", app.TruncateName(path, 30))
		return m, cmd
	}
	return m, cmd
}

// submit starts a query submission. The guard phase runs here on the event
// loop, so the optimistic user message is visible before the network call is
// issued; the call itself runs as a command.
func (m *Model) submit() tea.Cmd {
	req, err := m.session.BeginQuery(m.input.Value())
	switch {
	case err == nil:
	case err == app.ErrEmptyQuery:
		// A blank submission never leaves the client.
		return nil
	case err == app.ErrBusy:
		m.notice = "still working on the previous request"
		return nil
	default:
		m.errText = err.Error()
		return nil
	}

	m.input.Reset()
	m.loading = true
	m.spinner = 0
	m.errText = ""
	m.notice = ""
	return tea.Batch(m.runQuery(req), m.spinCmd())
}

func (m *Model) attachFiles(paths []string) tea.Cmd {
	atts, err := m.session.BeginUpload(paths)
	if err == app.ErrBusy {
		m.notice = "still working on the previous request"
		return nil
	}
	if len(atts) == 0 {
		m.notice = "no documents to attach"
		return nil
	}

	m.loading = true
	m.spinner = 0
	m.errText = ""
	m.notice = ""
	return tea.Batch(m.runUpload(atts), m.spinCmd())
}

func (m *Model) toggleLanguage() {
	next := app.LanguageNepali
	if m.session.Language() == app.LanguageNepali {
		next = app.LanguageEnglish
	}
	if err := m.session.SetLanguage(next); err != nil {
		m.notice = "cannot change language while a request is in flight"
		return
	}
	m.notice = fmt.Sprintf("response language: %s", languageLabel(next))
}

func (m *Model) removeLastAttachment() {
	atts := m.session.Attachments()
	if len(atts) == 0 {
		return
	}
	last := atts[len(atts)-1]
	m.session.RemoveAttachment(last.ID)
	m.notice = fmt.Sprintf("removed %s", app.TruncateName(last.DisplayName, 30))
}

func (m *Model) runQuery(req app.QueryRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.session.FinishQuery(ctx, req)
		return queryDoneMsg{err: err}
	}
}

func (m *Model) runUpload(atts []app.Attachment) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		err := m.session.FinishUpload(ctx, atts)
		return uploadDoneMsg{count: len(atts), err: err}
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinMsg{}
	})
}

func languageLabel(l app.Language) string {
	if l == app.LanguageNepali {
		return "नेपाली"
	}
	return "English"
}
