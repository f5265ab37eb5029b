package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountStatusClass(t *testing.T) {
	tests := []struct {
		status   AccountStatus
		expected StatusClass
	}{
		{AccountStatusInitializing, StatusClassNeutral},
		{AccountStatusChecking, StatusClassNeutral},
		{AccountStatusCheckSucceeded, StatusClassSuccess},
		{AccountStatusCheckFailed, StatusClassFailure},
		{AccountStatusWaiting, StatusClassWaiting},
		{AccountStatusClaiming, StatusClassNeutral},
		{AccountStatusClaimSucceeded, StatusClassSuccess},
		{AccountStatusClaimFailed, StatusClassFailure},
		{AccountStatusSchedulerError, StatusClassFailure},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.Class())
		})
	}
}

func TestAccountStatusText(t *testing.T) {
	t.Run("known status has display text", func(t *testing.T) {
		assert.Equal(t, "claim failed", AccountStatusClaimFailed.Text())
	})

	t.Run("unknown status falls back to raw value", func(t *testing.T) {
		assert.Equal(t, "mystery", AccountStatus("mystery").Text())
	})
}

func TestAccountState(t *testing.T) {
	t.Run("new state is initializing", func(t *testing.T) {
		state := NewAccountState("abc", "main")
		assert.Equal(t, AccountStatusInitializing, state.Status)
		assert.Equal(t, "initializing", state.StatusText)
		assert.Nil(t, state.NextClaimTime)
		assert.Zero(t, state.ClaimCount)
	})

	t.Run("error set and clear", func(t *testing.T) {
		state := NewAccountState("abc", "main")
		state.SetError(errors.New("boom"))
		if assert.NotNil(t, state.LastError) {
			assert.Equal(t, "boom", *state.LastError)
		}
		state.ClearError()
		assert.Nil(t, state.LastError)
	})
}
