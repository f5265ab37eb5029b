package handler

import (
	"net/http"
	"time"

	"github.com/openclaw/reward-poller/internal/httputil"
	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/timestamp"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func formatEpochMs(ms *int64) any {
	if ms == nil {
		return nil
	}
	return time.UnixMilli(*ms).UTC().Format(time.RFC3339)
}

func formatAccount(state model.AccountState, now time.Time) map[string]any {
	return map[string]any{
		"id":            state.ID,
		"name":          state.Name,
		"status":        state.Status,
		"class":         state.Status.Class(),
		"statusText":    state.StatusText,
		"claimCount":    state.ClaimCount,
		"balance":       state.Balance,
		"lastClaimTime": formatEpochMs(state.LastClaimTime),
		"nextClaimTime": formatEpochMs(state.NextClaimTime),
		"remainingMs":   timestamp.CalculateWaitTime(state.NextClaimTime, now).Milliseconds(),
		"lastError":     state.LastError,
		"updatedAt":     state.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
