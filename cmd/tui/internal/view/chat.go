package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Image extraction may fall back to the vision model, which is slow.
const chatTimeout = 2 * time.Minute

type Bot interface {
	ProcessText(ctx context.Context, userID uuid.UUID, text string) (string, error)
	ProcessImage(ctx context.Context, userID uuid.UUID, image []byte) (string, error)
	ProcessDocument(ctx context.Context, userID uuid.UUID, r io.Reader) (string, error)
}

type chatState int

const (
	chatStateTyping chatState = iota
	chatStatePicking
	chatStateWaiting
)

var (
	youStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	botStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type ChatModel struct {
	CommonModel
	bot    Bot
	userID uuid.UUID

	state      chatState
	input      textinput.Model
	transcript viewport.Model
	filePicker filepicker.Model
	lines      []string
}

func NewChatModel(bot Bot, userID uuid.UUID) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "si / no / \"el monto es 4500\" ..."
	ti.CharLimit = 500
	ti.Width = 70
	ti.Prompt = "> "
	ti.Focus()

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".xml"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ChatModel{
		bot:        bot,
		userID:     userID,
		input:      ti,
		transcript: viewport.New(80, 18),
		filePicker: fp,
	}
}

func (m ChatModel) Title() string { return "Chat" }

func (m ChatModel) ShortHelp() string {
	if m.state == chatStatePicking {
		return "Enter: send file | Esc: cancel"
	}

	return "Enter: send | Ctrl+O: attach receipt | Esc: back"
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.transcript.Width = msg.Width - 4
		m.transcript.Height = msg.Height - 8
		m.refreshTranscript()

		return m, nil

	case chatReplyMsg:
		m.state = chatStateTyping
		if msg.err != nil {
			m.append(errStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.append(botStyle.Render("Bot: ") + msg.reply)
		}

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case chatStateWaiting:
			return m, nil
		case chatStatePicking:
			if msg.Type == tea.KeyEsc {
				m.state = chatStateTyping
				return m, nil
			}
		case chatStateTyping:
			switch msg.Type {
			case tea.KeyEsc:
				return m, Back
			case tea.KeyCtrlO:
				m.state = chatStatePicking
				return m, m.filePicker.Init()
			case tea.KeyEnter:
				return m.send()
			}
		}
	}

	if m.state == chatStatePicking {
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = chatStateWaiting
			m.append(youStyle.Render("Tú: ") + "📎 " + filepath.Base(path))

			return m, m.sendFileCmd(path)
		}

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.input.Reset()
	m.state = chatStateWaiting
	m.append(youStyle.Render("Tú: ") + text)

	return m, m.sendTextCmd(text)
}

func (m *ChatModel) append(line string) {
	m.lines = append(m.lines, line)
	m.refreshTranscript()
}

func (m *ChatModel) refreshTranscript() {
	m.transcript.SetContent(strings.Join(m.lines, "\n\n"))
	m.transcript.GotoBottom()
}

func (m ChatModel) View() string {
	if m.state == chatStatePicking {
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a receipt photo or DTE XML:\n\n" + m.filePicker.View(),
		)
	}

	footer := m.input.View()
	if m.state == chatStateWaiting {
		footer = lipgloss.NewStyle().Faint(true).Render("Procesando...")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.transcript.View()),
			footer,
		),
	)
}

// Messages

type chatReplyMsg struct {
	reply string
	err   error
}

func (m ChatModel) sendTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		reply, err := m.bot.ProcessText(ctx, m.userID, text)

		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m ChatModel) sendFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		if strings.EqualFold(filepath.Ext(path), ".xml") {
			f, err := os.Open(path)
			if err != nil {
				return chatReplyMsg{err: err}
			}
			defer f.Close()

			reply, err := m.bot.ProcessDocument(ctx, m.userID, f)

			return chatReplyMsg{reply: reply, err: err}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return chatReplyMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}

		reply, err := m.bot.ProcessImage(ctx, m.userID, data)

		return chatReplyMsg{reply: reply, err: err}
	}
}
