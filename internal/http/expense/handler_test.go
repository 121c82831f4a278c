package expense_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/card"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	handler "github.com/MrJamesThe3rd/gastos/internal/http/expense"
	"github.com/MrJamesThe3rd/gastos/internal/user"
)

type fixture struct {
	router   http.Handler
	expenses *expense.MockRepository
	cards    *card.MockRepository
	user     *user.User
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		expenses: expense.NewMockRepository(ctrl),
		cards:    card.NewMockRepository(ctrl),
		user:     &user.User{ID: uuid.New(), PhoneNumber: "56911111111"},
	}

	h := handler.NewHandler(expense.NewService(f.expenses), card.NewService(f.cards), time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), f.user)))
		})
	})
	r.Route("/expenses", h.Routes)
	f.router = r

	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f *fixture) expense(amount int64) *expense.Expense {
	return &expense.Expense{
		ID:           uuid.New(),
		UserID:       f.user.ID,
		Amount:       amount,
		MerchantName: "Lider",
		Category:     "Supermercado",
		Date:         civil.Date{Year: 2025, Month: time.March, Day: 14},
		Status:       expense.StatusConfirmed,
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(f *fixture)
		wantStatus int
		wantCount  int
	}{
		{
			name:  "status and date filters",
			query: "?status=confirmed&start_date=2025-03-01&end_date=2025-03-31",
			setup: func(f *fixture) {
				f.expenses.EXPECT().
					ListExpenses(gomock.Any(), expense.ListFilter{
						UserID:    f.user.ID,
						Status:    new(expense.StatusConfirmed),
						StartDate: &civil.Date{Year: 2025, Month: time.March, Day: 1},
						EndDate:   &civil.Date{Year: 2025, Month: time.March, Day: 31},
					}).
					Return([]*expense.Expense{f.expense(100), f.expense(200)}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "unknown status",
			query:      "?status=archived",
			setup:      func(*fixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date",
			query:      "?start_date=14-03-2025",
			setup:      func(*fixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "repository failure",
			query: "",
			setup: func(f *fixture) {
				f.expenses.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			rec := f.do(http.MethodGet, "/expenses"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var got []map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Len(t, got, tt.wantCount)
				assert.Equal(t, "2025-03-14", got[0]["date"])
			}
		})
	}
}

func TestGet_OtherUsersExpenseIsHidden(t *testing.T) {
	f := newFixture(t)

	e := f.expense(100)
	e.UserID = uuid.New()

	f.expenses.EXPECT().GetExpense(gomock.Any(), e.ID).Return(e, nil)

	rec := f.do(http.MethodGet, "/expenses/"+e.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGet_InvalidID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/expenses/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)

	a := f.expense(1000)
	b := f.expense(500)
	b.Category = "Transporte"

	f.expenses.EXPECT().
		ListExpenses(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter expense.ListFilter) ([]*expense.Expense, error) {
			assert.True(t, filter.ExcludeCard)
			assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 1}, *filter.StartDate)
			assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 31}, *filter.EndDate)

			return []*expense.Expense{a, b}, nil
		})

	rec := f.do(http.MethodGet, "/expenses/summary?year=2025&month=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Year  int   `json:"year"`
		Month int   `json:"month"`
		Total int64 `json:"total"`
		Days  []struct {
			Date       string `json:"date"`
			Categories []struct {
				Category string `json:"category"`
				Total    int64  `json:"total"`
			} `json:"categories"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 3, got.Month)
	assert.Equal(t, int64(1500), got.Total)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "2025-03-14", got.Days[0].Date)
	require.Len(t, got.Days[0].Categories, 2)
	assert.Equal(t, "Supermercado", got.Days[0].Categories[0].Category)
}

func TestSummary_InvalidMonth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/expenses/summary?year=2025&month=13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *fixture, e *expense.Expense)
		wantStatus int
	}{
		{
			name: "amount and category",
			body: `{"amount": 4500, "category": " Farmacia "}`,
			setup: func(f *fixture, e *expense.Expense) {
				f.expenses.EXPECT().
					UpdateExpense(gomock.Any(), e.ID, expense.Update{Amount: new(int64(4500)), Category: new("Farmacia")}).
					Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "card implies credit",
			body: `{"card_id": "00000000-0000-0000-0000-000000000001"}`,
			setup: func(f *fixture, e *expense.Expense) {
				cardID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

				f.cards.EXPECT().GetCard(gomock.Any(), f.user.ID, cardID).Return(&card.Card{ID: cardID, UserID: f.user.ID}, nil)
				f.expenses.EXPECT().
					UpdateExpense(gomock.Any(), e.ID, expense.Update{CardID: &cardID, PaymentMethod: new(expense.PaymentCredit)}).
					Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cash clears card",
			body: `{"payment_method": "efectivo"}`,
			setup: func(f *fixture, e *expense.Expense) {
				f.expenses.EXPECT().
					UpdateExpense(gomock.Any(), e.ID, expense.Update{PaymentMethod: new(expense.PaymentCash), ClearCard: true}).
					Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "foreign card",
			body: `{"card_id": "00000000-0000-0000-0000-000000000002"}`,
			setup: func(f *fixture, _ *expense.Expense) {
				f.cards.EXPECT().GetCard(gomock.Any(), f.user.ID, gomock.Any()).Return(nil, card.ErrNotFound)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative amount",
			body:       `{"amount": -1}`,
			setup:      func(*fixture, *expense.Expense) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank category",
			body:       `{"category": "  "}`,
			setup:      func(*fixture, *expense.Expense) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown payment method",
			body:       `{"payment_method": "bitcoin"}`,
			setup:      func(*fixture, *expense.Expense) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{`,
			setup:      func(*fixture, *expense.Expense) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			e := f.expense(1000)

			f.expenses.EXPECT().GetExpense(gomock.Any(), e.ID).Return(e, nil).MinTimes(1)
			tt.setup(f, e)

			rec := f.do(http.MethodPatch, "/expenses/"+e.ID.String(), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
