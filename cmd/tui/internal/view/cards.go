package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/card"
)

type cardsState int

const (
	cardsStateBrowse cardsState = iota
	cardsStateAdd
	cardsStateConfirmDelete
)

type CardsModel struct {
	CommonModel
	svc    *card.Service
	userID uuid.UUID

	state cardsState
	table table.Model
	cards []*card.Card
	form  *huh.Form

	err    error
	status string
}

func NewCardsModel(svc *card.Service, userID uuid.UUID) CardsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 30},
			{Title: "Last 4", Width: 8},
			{Title: "Closing", Width: 8},
			{Title: "Payment", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return CardsModel{svc: svc, userID: userID, table: t}
}

func (m CardsModel) Title() string { return "Credit Cards" }

func (m CardsModel) ShortHelp() string {
	switch m.state {
	case cardsStateAdd:
		return "Navigate form | Esc: cancel"
	case cardsStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "a: add | x: delete | Esc: back"
}

func (m CardsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func dayValidator(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 31 {
		return fmt.Errorf("day must be between 1 and 31")
	}

	return nil
}

func (m CardsModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("Visa Santander").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("last4").
				Title("Last 4 digits").
				CharLimit(4),
			huh.NewInput().
				Key("closing_day").
				Title("Closing day").
				Validate(dayValidator),
			huh.NewInput().
				Key("payment_day").
				Title("Payment day").
				Validate(dayValidator),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCardsMsg:
		m.err = msg.err
		m.cards = msg.cards
		m.refreshTable()

		return m, nil

	case cardSavedMsg:
		m.state = cardsStateBrowse
		m.form = nil
		m.table.Focus()

		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()
	}

	switch m.state {
	case cardsStateAdd:
		return m.updateAdd(msg)
	case cardsStateConfirmDelete:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "y":
				return m, m.deleteCmd()
			case "n", "esc":
				m.state = cardsStateBrowse
			}
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			m.form = m.newForm()
			m.state = cardsStateAdd
			m.table.Blur()

			return m, m.form.Init()
		case "x":
			if len(m.cards) > 0 {
				m.state = cardsStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CardsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = cardsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m CardsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := m.table.View()
	if len(m.cards) == 0 {
		content = "No cards yet. Press a to add one."
	}

	switch m.state {
	case cardsStateAdd:
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Card\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	case cardsStateConfirmDelete:
		if c := m.selected(); c != nil {
			content += "\n\n" + errStyle.Render(fmt.Sprintf("Delete %s? (y/n)", c.Name))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m CardsModel) selected() *card.Card {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.cards) {
		return nil
	}

	return m.cards[idx]
}

func optionalDay(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func (m *CardsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.cards))
	for _, c := range m.cards {
		rows = append(rows, table.Row{c.Name, c.Last4, strconv.Itoa(c.ClosingDay), strconv.Itoa(c.PaymentDay)})
	}

	m.table.SetRows(rows)
}

// Messages

type loadCardsMsg struct {
	cards []*card.Card
	err   error
}

type cardSavedMsg struct {
	status string
	err    error
}

func (m CardsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cards, err := m.svc.List(ctx, m.userID)

		return loadCardsMsg{cards: cards, err: err}
	}
}

func (m CardsModel) createCmd() tea.Cmd {
	params := card.CreateParams{
		UserID:     m.userID,
		Name:       m.form.GetString("name"),
		Last4:      m.form.GetString("last4"),
		ClosingDay: optionalDay(m.form.GetString("closing_day")),
		PaymentDay: optionalDay(m.form.GetString("payment_day")),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.svc.Create(ctx, params)
		if err != nil {
			return cardSavedMsg{err: err}
		}

		return cardSavedMsg{status: "Added " + c.Name}
	}
}

func (m CardsModel) deleteCmd() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, m.userID, c.ID); err != nil {
			return cardSavedMsg{err: err}
		}

		return cardSavedMsg{status: "Deleted " + c.Name}
	}
}
