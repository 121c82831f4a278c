package merchant_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/gastos/internal/http/merchant"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
)

func TestCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := merchant.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/merchants", handler.NewHandler(merchant.NewService(repo)).Routes)

	repo.EXPECT().
		SearchByName(gomock.Any(), []string{"Jumbo Costanera"}, merchant.MaxCandidates).
		Return(nil, nil)
	repo.EXPECT().
		SearchByName(gomock.Any(), []string{"Jumbo", "Costanera"}, merchant.MaxCandidates).
		Return([]*merchant.Merchant{{ID: uuid.New(), Name: "Jumbo", IssuerID: "81201000-K"}}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/merchants/candidates?q=Jumbo+Costanera", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jumbo", got[0]["name"])
	assert.Equal(t, "81201000-K", got[0]["issuer_id"])
}

func TestCandidates_MissingTerm(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/merchants", handler.NewHandler(merchant.NewService(nil)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/merchants/candidates", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
