package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/repository"
	"github.com/openclaw/reward-poller/internal/util"
)

func newTestStore() repository.AccountStateRepository {
	return repository.NewAccountStateRepository([]model.Credential{
		{Name: "main", AuthToken: "tok-main"},
		{Name: "alt", AuthToken: "tok-alt"},
	})
}

func TestStatusHandler_List(t *testing.T) {
	store := newTestStore()
	now := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	next := now.Add(90 * time.Second).UnixMilli()

	_, err := store.Update(util.AccountID("tok-main"), func(s *model.AccountState) {
		s.SetStatus(model.AccountStatusWaiting)
		s.NextClaimTime = &next
		s.ClaimCount = 2
		s.Balance = 10.5
	})
	require.NoError(t, err)

	h := NewStatusHandler(store)
	h.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Accounts []struct {
			ID            string  `json:"id"`
			Name          string  `json:"name"`
			Status        string  `json:"status"`
			Class         string  `json:"class"`
			ClaimCount    uint64  `json:"claimCount"`
			Balance       float64 `json:"balance"`
			NextClaimTime *string `json:"nextClaimTime"`
			RemainingMs   int64   `json:"remainingMs"`
		} `json:"accounts"`
		Total        int     `json:"total"`
		TotalClaims  uint64  `json:"totalClaims"`
		TotalBalance float64 `json:"totalBalance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, uint64(2), resp.TotalClaims)
	assert.Equal(t, 10.5, resp.TotalBalance)

	main := resp.Accounts[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, string(model.AccountStatusWaiting), main.Status)
	assert.Equal(t, int64(90_000), main.RemainingMs)
	require.NotNil(t, main.NextClaimTime)
	assert.Equal(t, "2024-01-02T03:01:30Z", *main.NextClaimTime)

	alt := resp.Accounts[1]
	assert.Equal(t, "alt", alt.Name)
	assert.Nil(t, alt.NextClaimTime)
	assert.Zero(t, alt.RemainingMs)
}

func TestStatusHandler_Get(t *testing.T) {
	store := newTestStore()
	h := NewStatusHandler(store)

	t.Run("returns one account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/"+util.AccountID("tok-alt"), nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"alt"`)
		assert.NotContains(t, rec.Body.String(), "tok-alt")
	})

	t.Run("unknown account is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	})
}
