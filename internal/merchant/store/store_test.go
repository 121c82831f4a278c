package store_test

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
	"github.com/MrJamesThe3rd/gastos/internal/merchant/store"
)

func TestPatterns(t *testing.T) {
	tests := []struct {
		term         string
		wantContains string
		wantPrefix   string
	}{
		{term: "Lider", wantContains: "%Lider%", wantPrefix: "Lider%"},
		{term: "100%", wantContains: `%100\%%`, wantPrefix: `100\%%`},
		{term: "a_b", wantContains: `%a\_b%`, wantPrefix: `a\_b%`},
		{term: `c:\x`, wantContains: `%c:\\x%`, wantPrefix: `c:\\x%`},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.wantContains, store.ContainsPattern(tt.term))
			assert.Equal(t, tt.wantPrefix, store.PrefixPattern(tt.term))
		})
	}
}

// openTestDB connects to TEST_DATABASE_URL inside a throwaway schema so the
// ranking query runs against a real PostgreSQL.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	admin, err := database.New(ctx, dsn)
	require.NoError(t, err)

	schema := "merchant_store_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	db, err := database.New(ctx, withSearchPath(dsn, schema))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	return db
}

func withSearchPath(dsn, schema string) string {
	if !strings.Contains(dsn, "://") {
		return dsn + " search_path=" + schema
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&search_path=" + schema
	}

	return dsn + "?search_path=" + schema
}

func seed(t *testing.T, s *store.Store, names ...string) {
	t.Helper()

	for _, n := range names {
		m := &merchant.Merchant{Name: n}
		if n == "Lider Express" {
			m.IssuerID = "76000000-1"
		}

		require.NoError(t, s.CreateMerchant(context.Background(), m))
	}
}

func names(ms []*merchant.Merchant) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}

	return out
}

func TestStore_FindCandidates(t *testing.T) {
	s := store.New(openTestDB(t))
	seed(t, s, "Lider Express", "Unimarc", "Jumbo Costanera", "Jumbo Alameda", "Santa Isabel Express", "Santa Isabel")

	svc := merchant.NewService(s)

	tests := []struct {
		term string
		want []string
	}{
		{term: "Lider", want: []string{"Lider Express"}},
		{term: "xyz", want: []string{}},
		{term: "LIDER", want: []string{"Lider Express"}},
		{term: "Super Lider Norte", want: []string{"Lider Express"}},
		{term: "jumbo", want: []string{"Jumbo Costanera", "Jumbo Alameda"}},
		{term: "Santa Isabel", want: []string{"Santa Isabel", "Santa Isabel Express"}},
		{term: "Express", want: []string{"Lider Express", "Santa Isabel Express"}},
		{term: "Jumbo Express Alameda", want: []string{"Jumbo Alameda", "Jumbo Costanera", "Lider Express", "Santa Isabel Express"}},
		{term: "50%", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.FindCandidates(context.Background(), tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestStore_SearchByName_Limit(t *testing.T) {
	s := store.New(openTestDB(t))
	seed(t, s, "Lider Express", "Unimarc", "Jumbo Costanera", "Jumbo Alameda")

	got, err := s.SearchByName(context.Background(), []string{"a"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unimarc", "Jumbo Costanera"}, names(got))
}

func TestStore_ResolveByIssuerAndName(t *testing.T) {
	ctx := context.Background()
	s := store.New(openTestDB(t))
	seed(t, s, "Lider Express", "Unimarc")

	first, err := s.FindByIssuerID(ctx, "76000000-1")
	require.NoError(t, err)

	again := &merchant.Merchant{Name: "Lider", IssuerID: "76000000-1"}
	require.NoError(t, s.CreateMerchant(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Lider Express", again.Name)

	byName, err := s.FindByName(ctx, "unimarc")
	require.NoError(t, err)
	assert.Equal(t, "Unimarc", byName.Name)

	_, err = s.FindByName(ctx, "Tottus")
	assert.ErrorIs(t, err, merchant.ErrNotFound)
}
