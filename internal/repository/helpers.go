package repository

import "github.com/openclaw/reward-poller/internal/model"

// clonePtr returns a pointer to a copy of *p, or nil. Snapshots go through
// it so readers never share memory with the writer.
//
// Usage:
//
//	out.NextClaimTime = clonePtr(in.NextClaimTime)
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneState(s model.AccountState) model.AccountState {
	s.LastClaimTime = clonePtr(s.LastClaimTime)
	s.NextClaimTime = clonePtr(s.NextClaimTime)
	s.LastError = clonePtr(s.LastError)
	return s
}
