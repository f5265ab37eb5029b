package model

import (
	"time"
)

// Credential is one configured account as loaded from the accounts file.
type Credential struct {
	Name      string `json:"name" yaml:"name"`
	AuthToken string `json:"authToken" yaml:"authToken"`
}

type AccountState struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        AccountStatus `json:"status"`
	StatusText    string        `json:"statusText"`
	LastClaimTime *int64        `json:"lastClaimTime,omitempty"`
	NextClaimTime *int64        `json:"nextClaimTime,omitempty"`
	ClaimCount    uint64        `json:"claimCount"`
	Balance       float64       `json:"balance"`
	LastError     *string       `json:"lastError,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// NewAccountState returns the initial record for a credential.
func NewAccountState(id, name string) AccountState {
	return AccountState{
		ID:         id,
		Name:       name,
		Status:     AccountStatusInitializing,
		StatusText: AccountStatusInitializing.Text(),
		UpdatedAt:  time.Now(),
	}
}

// SetStatus sets the status and resets the display text to its default.
func (s *AccountState) SetStatus(status AccountStatus) {
	s.Status = status
	s.StatusText = status.Text()
}

func (s *AccountState) SetError(err error) {
	msg := err.Error()
	s.LastError = &msg
}

func (s *AccountState) ClearError() {
	s.LastError = nil
}
