package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateEdit
)

var statusFilters = []*expense.Status{
	nil,
	new(expense.StatusPending),
	new(expense.StatusConfirmed),
	new(expense.StatusRejected),
}

var statusLabels = []string{"All", "Pending", "Confirmed", "Rejected"}

type ExpensesModel struct {
	CommonModel
	svc    *expense.Service
	userID uuid.UUID

	state    expensesState
	table    table.Model
	expenses []*expense.Expense
	form     *huh.Form

	statusFilterIdx int
	timeframe       Timeframe

	filter  expense.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formAmount   string
	formCategory string
}

func NewExpensesModel(svc *expense.Service, userID uuid.UUID) ExpensesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Merchant", Width: 30},
		{Title: "Category", Width: 16},
		{Title: "Payment", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ExpensesModel{
		svc:    svc,
		userID: userID,
		table:  t,
		filter: expense.ListFilter{UserID: userID},
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	if m.state == expensesStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | s: status filter | d: date filter | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.expenses = msg.expenses
		m.status = ""
		m.refreshTable()

		return m, nil

	case expenseSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = expensesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case expensesStateBrowse:
		return m.updateBrowse(msg)
	case expensesStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		case "d":
			m.timeframe = (m.timeframe + 1) % 3
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return m, nil
	}

	e := m.expenses[idx]
	m.formAmount = strconv.FormatInt(e.Amount, 10)
	m.formCategory = e.Category

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("amount must be a whole non-negative number")
					}

					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.formCategory).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = expensesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = expensesStateBrowse
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

	return m, m.saveCmd()
}

func (m ExpensesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(m.timeframe.String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == expensesStateEdit && m.form != nil {
		merchant := ""
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.expenses) {
			merchant = m.expenses[idx].DisplayMerchant()
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Expense\n\nMerchant: %s\n\n%s", merchant, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ExpensesModel) applyFilter(now time.Time) {
	m.filter.Status = statusFilters[m.statusFilterIdx]

	if start, end, ok := TimeframeToDateRange(m.timeframe, now); ok {
		m.filter.StartDate = &start
		m.filter.EndDate = &end
	} else {
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func paymentLabel(e *expense.Expense) string {
	if e.Card != nil {
		return e.PaymentMethod.Label() + " · " + e.Card.Name
	}

	return e.PaymentMethod.Label()
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Status),
			FormatAmount(e.Amount),
			e.DisplayMerchant(),
			e.Category,
			paymentLabel(e),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		expenses, err := m.svc.List(ctx, filter)

		return loadExpensesMsg{expenses: expenses, err: err}
	}
}

type expenseSaveMsg struct {
	err error
}

func (m ExpensesModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	// The form holds its own copy of the bound values.
	id := m.expenses[idx].ID
	category := strings.TrimSpace(m.form.GetString("category"))

	amount, err := strconv.ParseInt(strings.TrimSpace(m.form.GetString("amount")), 10, 64)
	if err != nil {
		return func() tea.Msg { return expenseSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.svc.Update(ctx, id, expense.Update{Amount: &amount, Category: &category})

		return expenseSaveMsg{err: err}
	}
}
