package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openclaw/reward-poller/internal/httputil"
	"github.com/openclaw/reward-poller/internal/repository"
)

// StatusHandler serves read-only views of the account state store.
type StatusHandler struct {
	store repository.AccountStateRepository
	now   func() time.Time
}

func NewStatusHandler(store repository.AccountStateRepository) *StatusHandler {
	return &StatusHandler{
		store: store,
		now:   time.Now,
	}
}

func (h *StatusHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{accountID}", h.Get)
	return r
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	snapshot := h.store.Snapshot()

	accounts := make([]map[string]any, 0, len(snapshot))
	var totalClaims uint64
	var totalBalance float64
	for _, state := range snapshot {
		accounts = append(accounts, formatAccount(state, now))
		totalClaims += state.ClaimCount
		totalBalance += state.Balance
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts":     accounts,
		"total":        len(accounts),
		"totalClaims":  totalClaims,
		"totalBalance": totalBalance,
		"timestamp":    now.UnixMilli(),
	})
}

func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Get(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatAccount(state, h.now()))
}
