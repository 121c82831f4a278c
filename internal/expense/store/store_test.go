package store_test

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/expense/store"
)

// openTestDB connects to TEST_DATABASE_URL inside a throwaway schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	admin, err := database.New(ctx, dsn)
	require.NoError(t, err)

	schema := "expense_store_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	sep := "?"
	switch {
	case !strings.Contains(dsn, "://"):
		sep = " "
	case strings.Contains(dsn, "?"):
		sep = "&"
	}

	db, err := database.New(ctx, dsn+sep+"search_path="+schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	return db
}

func createDraft(t *testing.T, db *sql.DB, s *store.Store) *expense.Expense {
	t.Helper()

	var userID uuid.UUID
	err := db.QueryRowContext(context.Background(),
		"INSERT INTO users (phone_number) VALUES ($1) RETURNING id", uuid.NewString()).Scan(&userID)
	require.NoError(t, err)

	e := &expense.Expense{
		UserID:       userID,
		Amount:       12990,
		MerchantName: "Lider Express",
		Category:     expense.DefaultCategory,
		Date:         civil.Date{Year: 2025, Month: 3, Day: 14},
		Status:       expense.StatusPending,
	}
	require.NoError(t, s.CreatePending(context.Background(), e))

	return e
}

func TestStore_UpdateExpense_OnlyPending(t *testing.T) {
	db := openTestDB(t)
	s := store.New(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		settle      expense.Status
		onlyPending bool
		wantErr     error
		wantAmount  int64
	}{
		{name: "PendingDraft", onlyPending: true, wantAmount: 5000},
		{name: "Confirmed", settle: expense.StatusConfirmed, onlyPending: true, wantErr: expense.ErrNotFound, wantAmount: 12990},
		{name: "Rejected", settle: expense.StatusRejected, onlyPending: true, wantErr: expense.ErrNotFound, wantAmount: 12990},
		{name: "ConfirmedWithoutFilter", settle: expense.StatusConfirmed, wantAmount: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := createDraft(t, db, s)

			if tt.settle != "" {
				ok, err := s.TransitionStatus(ctx, e.ID, expense.StatusPending, tt.settle)
				require.NoError(t, err)
				require.True(t, ok)
			}

			err := s.UpdateExpense(ctx, e.ID, expense.Update{Amount: new(int64(5000)), OnlyPending: tt.onlyPending})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, err := s.GetExpense(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.Amount)
		})
	}
}
