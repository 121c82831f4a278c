package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

// SummaryModel shows one month of confirmed cash-flow spending grouped by day
// and category.
type SummaryModel struct {
	CommonModel
	svc    *expense.Service
	userID uuid.UUID

	year  int
	month time.Month

	summary *expense.Summary
	loading bool
	err     error
}

func NewSummaryModel(svc *expense.Service, userID uuid.UUID, now time.Time) SummaryModel {
	return SummaryModel{
		svc:     svc,
		userID:  userID,
		year:    now.Year(),
		month:   now.Month(),
		loading: true,
	}
}

func (m SummaryModel) Title() string { return "Monthly Summary" }

func (m SummaryModel) ShortHelp() string {
	return "←/→: change month | r: refresh | Esc: back"
}

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		m.summary, m.err = msg.summary, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.year, m.month = ShiftMonth(m.year, m.month, -1)
		case "right", "l":
			m.year, m.month = ShiftMonth(m.year, m.month, 1)
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m SummaryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)
	title := activeStyle(fmt.Sprintf("%s %d", m.month, m.year))

	switch {
	case m.loading:
		return style.Render(title + "\n\nLoading...")
	case m.err != nil:
		return style.Render(title + "\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.summary == nil || len(m.summary.Days) == 0:
		return style.Render(title + "\n\nNo confirmed expenses this month.")
	}

	var b strings.Builder

	for _, d := range m.summary.Days {
		fmt.Fprintf(&b, "%s  %s\n", lipgloss.NewStyle().Bold(true).Render(FormatDate(d.Date)), FormatAmount(d.Total))

		for _, c := range d.Categories {
			fmt.Fprintf(&b, "    %-20s %12s  (%d)\n", c.Category, FormatAmount(c.Total), c.Count)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %s", activeStyle(FormatAmount(m.summary.Total)))

	return style.Render(title + "\n\n" + b.String())
}

// Messages

type loadSummaryMsg struct {
	summary *expense.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	year, month := m.year, m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.svc.MonthlySummary(ctx, m.userID, year, month)

		return loadSummaryMsg{summary: summary, err: err}
	}
}
