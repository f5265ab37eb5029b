package repository

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/openclaw/reward-poller/internal/errors"
	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/util"
)

// AccountStateRepository holds one state entry per configured account.
// Each entry has its own lock; Update runs the whole read/modify/write under
// it, so readers never observe a half-applied change.
type AccountStateRepository interface {
	Get(id string) (model.AccountState, error)
	Update(id string, fn func(state *model.AccountState)) (model.AccountState, error)
	Snapshot() []model.AccountState
	IDs() []string
}

type stateEntry struct {
	mu    sync.RWMutex
	state model.AccountState
}

type accountStateRepo struct {
	// order and entries are fixed after construction and need no lock.
	order   []string
	entries map[string]*stateEntry
	now     func() time.Time
}

func NewAccountStateRepository(credentials []model.Credential) AccountStateRepository {
	repo := &accountStateRepo{
		order:   make([]string, 0, len(credentials)),
		entries: make(map[string]*stateEntry, len(credentials)),
		now:     time.Now,
	}
	for _, cred := range credentials {
		id := util.AccountID(cred.AuthToken)
		if _, exists := repo.entries[id]; exists {
			continue
		}
		repo.order = append(repo.order, id)
		repo.entries[id] = &stateEntry{state: model.NewAccountState(id, cred.Name)}
	}
	return repo
}

func (r *accountStateRepo) Get(id string) (model.AccountState, error) {
	e, ok := r.entries[id]
	if !ok {
		return model.AccountState{}, apperrors.NotFound("Account")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneState(e.state), nil
}

// Update applies fn to the entry under its write lock and returns the
// resulting state. A change that would lower ClaimCount is rejected and the
// entry is left untouched.
func (r *accountStateRepo) Update(id string, fn func(state *model.AccountState)) (model.AccountState, error) {
	e, ok := r.entries[id]
	if !ok {
		return model.AccountState{}, apperrors.NotFound("Account")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := cloneState(e.state)
	fn(&next)
	next.ID = e.state.ID

	if next.ClaimCount < e.state.ClaimCount {
		return cloneState(e.state), apperrors.Internal(
			fmt.Sprintf("claim count for %s would decrease from %d to %d", id, e.state.ClaimCount, next.ClaimCount),
		)
	}

	next.UpdatedAt = r.now()
	e.state = next
	return cloneState(next), nil
}

// Snapshot copies every entry in configuration order.
func (r *accountStateRepo) Snapshot() []model.AccountState {
	out := make([]model.AccountState, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		e.mu.RLock()
		out = append(out, cloneState(e.state))
		e.mu.RUnlock()
	}
	return out
}

func (r *accountStateRepo) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
