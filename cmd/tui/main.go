package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/gastos/internal/barcode"
	"github.com/MrJamesThe3rd/gastos/internal/bot"
	"github.com/MrJamesThe3rd/gastos/internal/card"
	cardStore "github.com/MrJamesThe3rd/gastos/internal/card/store"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/gastos/internal/expense/store"
	"github.com/MrJamesThe3rd/gastos/internal/extract"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
	merchantStore "github.com/MrJamesThe3rd/gastos/internal/merchant/store"
	"github.com/MrJamesThe3rd/gastos/internal/user"
	userStore "github.com/MrJamesThe3rd/gastos/internal/user/store"
)

type model struct {
	expenseService *expense.Service
	cardService    *card.Service
	userID         uuid.UUID
	userName       string
	loc            *time.Location

	currentView View

	chatView     view.ChatModel
	expensesView view.ExpensesModel
	summaryView  view.SummaryModel
	cardsView    view.CardsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewChat     View = 1
	ViewExpenses View = 2
	ViewSummary  View = 3
	ViewCards    View = 4
)

func fail(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func initialModel() model {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		fail("failed to load time zone", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		fail("failed to connect to database", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		fail("failed to migrate database", err)
	}

	extractor, err := extract.New(ctx, extract.Config{
		APIKey:   cfg.Gemini.APIKey,
		Model:    cfg.Gemini.Model,
		Timeout:  cfg.Gemini.Timeout,
		Location: loc,
	})
	if err != nil {
		fail("failed to create extractor", err)
	}

	userSvc := user.NewService(userStore.New(db))
	merchantSvc := merchant.NewService(merchantStore.New(db))
	cardSvc := card.NewService(cardStore.New(db))
	expenseSvc := expense.NewService(expenseStore.New(db))
	pipeline := barcode.NewPipeline(barcode.WithParallel(cfg.Barcode.Parallel))
	processor := bot.NewProcessor(expenseSvc, merchantSvc, cardSvc, pipeline, extractor, loc)

	u, err := userSvc.Resolve(ctx, cfg.TUI.Phone, cfg.TUI.Name)
	if err != nil {
		fail("failed to resolve terminal user", err)
	}

	return model{
		expenseService: expenseSvc,
		cardService:    cardSvc,
		userID:         u.ID,
		userName:       u.Name,
		loc:            loc,
		currentView:    ViewMenu,
		chatView:       view.NewChatModel(processor, u.ID),
		expensesView:   view.NewExpensesModel(expenseSvc, u.ID),
		summaryView:    view.NewSummaryModel(expenseSvc, u.ID, time.Now().In(loc)),
		cardsView:      view.NewCardsModel(cardSvc, u.ID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewChat
				return m, m.chatView.Init()
			case "2":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.expenseService, m.userID)

				return m, m.expensesView.Init()
			case "3":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.expenseService, m.userID, time.Now().In(m.loc))

				return m, m.summaryView.Init()
			case "4":
				m.currentView = ViewCards
				m.cardsView = view.NewCardsModel(m.cardService, m.userID)

				return m, m.cardsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewCards:
		var newModel tea.Model
		newModel, cmd = m.cardsView.Update(msg)
		m.cardsView = newModel.(view.CardsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Gastos TUI (" + m.userName + ")\n\n" +
				"1. Chat\n" +
				"2. Expenses\n" +
				"3. Monthly Summary\n" +
				"4. Credit Cards\n\n" +
				"q. Quit",
		)
	case ViewChat:
		return m.chatView.View()
	case ViewExpenses:
		return m.expensesView.View()
	case ViewSummary:
		return m.summaryView.View()
	case ViewCards:
		return m.cardsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
