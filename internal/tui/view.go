package tui

import (
	"fmt"
	"strings"

	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/app"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorFg      = "#ECECEC"
	colorFgMuted = "#94A3B8"
	colorBgCard  = "#303030"
	colorAccent  = "#FF5588"
	colorUser    = "#3B82F6"
	colorBot     = "#10B981"
	colorError   = "#EF4444"
	colorBorder  = "#334155"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorFg)).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorBorder))

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Background(lipgloss.Color(colorBgCard)).
			Padding(0, 1).
			MarginRight(1)

	chipKindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent)).
			Background(lipgloss.Color(colorBgCard)).
			Bold(true)

	userHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorUser))

	botHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBot))

	userTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Background(lipgloss.Color(colorBgCard)).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorError)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorError)).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Italic(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted))
)

func (m *Model) View() string {
	if m.pickerOpen {
		return m.viewPicker()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if chips := m.renderAttachments(); chips != "" {
		b.WriteString(chips)
		b.WriteString("\n")
	}

	b.WriteString(m.renderMessages())

	if m.loading {
		frame := spinnerFrames[m.spinner%len(spinnerFrames)]
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s Thinking...", frame)))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Width(m.width - 4).Render("Error: " + m.errText))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(inputStyle.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine))

	return b.String()
}

func (m *Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Attach PDF files"))
	b.WriteString("\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter attach | esc cancel"))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := "Chat with Your PDF Files"
	lang := strings.ToUpper(string(m.session.Language()))
	files := len(m.session.Attachments())
	status := fmt.Sprintf("%s · %s · %d file(s)", title, lang, files)
	return headerStyle.Width(m.width - 2).Render(status)
}

func (m *Model) renderAttachments() string {
	atts := m.session.Attachments()
	if len(atts) == 0 {
		return ""
	}
	chips := make([]string, 0, len(atts))
	for _, att := range atts {
		label := chipKindStyle.Render("PDF ") + app.TruncateName(att.DisplayName, 30)
		chips = append(chips, chipStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m *Model) renderMessages() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return noticeStyle.Render("Upload PDFs with ctrl+o, then ask about them.") + "\n\n"
	}

	var b strings.Builder
	for _, msg := range msgs {
		ts := msg.CreatedAt.Format("15:04:05")
		if msg.Author == app.AuthorUser {
			b.WriteString(userHeaderStyle.Render("You · " + ts))
			b.WriteString("\n")
			b.WriteString(userTextStyle.Width(m.width - 4).Render(msg.Text))
		} else {
			b.WriteString(botHeaderStyle.Render("Assistant · " + ts))
			b.WriteString("\n")
			b.WriteString(m.markdown.Render(msg.Text, m.width-6))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
