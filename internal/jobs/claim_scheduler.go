package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/reward-poller/internal/audit"
	"github.com/openclaw/reward-poller/internal/display"
	apperrors "github.com/openclaw/reward-poller/internal/errors"
	"github.com/openclaw/reward-poller/internal/metrics"
	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/repository"
	"github.com/openclaw/reward-poller/internal/rewards"
	"github.com/openclaw/reward-poller/internal/timestamp"
	"github.com/openclaw/reward-poller/internal/util"
)

type RewardClient interface {
	CheckNextClaimTime(ctx context.Context, token string) (int64, error)
	SubmitClaim(ctx context.Context, token string) (rewards.ClaimResult, error)
}

// ClaimScheduler drives one account through check, wait and claim forever.
// It is the only writer of that account's state entry.
type ClaimScheduler struct {
	id     string
	name   string
	token  string
	client RewardClient
	store  repository.AccountStateRepository
	policy BackoffPolicy
	now    func() time.Time
	sleep  Sleeper
	logger zerolog.Logger
}

type SchedulerOption func(*ClaimScheduler)

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *ClaimScheduler) { s.now = now }
}

func WithSleeper(sleep Sleeper) SchedulerOption {
	return func(s *ClaimScheduler) { s.sleep = sleep }
}

func NewClaimScheduler(
	cred model.Credential,
	client RewardClient,
	store repository.AccountStateRepository,
	policy BackoffPolicy,
	opts ...SchedulerOption,
) *ClaimScheduler {
	id := util.AccountID(cred.AuthToken)
	s := &ClaimScheduler{
		id:     id,
		name:   cred.Name,
		token:  cred.AuthToken,
		client: client,
		store:  store,
		policy: policy,
		now:    time.Now,
		sleep:  SleepContext,
		logger: log.With().Str("accountId", id).Str("account", cred.Name).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClaimScheduler) ID() string {
	return s.id
}

// Run loops until ctx is cancelled. Failures inside a cycle never end it.
func (s *ClaimScheduler) Run(ctx context.Context) {
	audit.Log(audit.Event{Type: audit.EventSchedulerStart, AccountID: s.id, AccountName: s.name})
	defer audit.Log(audit.Event{Type: audit.EventSchedulerStop, AccountID: s.id, AccountName: s.name})

	for ctx.Err() == nil {
		err := s.safeCycle(ctx)
		if err == nil || ctx.Err() != nil {
			continue
		}
		s.recoverFromError(ctx, err)
	}
}

func (s *ClaimScheduler) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("stack", string(debug.Stack())).Msgf("scheduler panic: %v", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.cycle(ctx)
}

// cycle runs check, wait and claim once. It returns an error only for
// conditions the phases do not handle themselves.
func (s *ClaimScheduler) cycle(ctx context.Context) error {
	next, ok, err := s.check(ctx)
	if err != nil || !ok {
		return err
	}

	if err := s.waitUntil(ctx, next); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	return s.claim(ctx)
}

func (s *ClaimScheduler) check(ctx context.Context) (int64, bool, error) {
	if err := s.setStatus(model.AccountStatusChecking); err != nil {
		return 0, false, err
	}

	next, err := s.client.CheckNextClaimTime(ctx, s.token)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, nil
		}
		if !apperrors.IsClientFailure(err) {
			return 0, false, err
		}

		s.logger.Warn().Err(err).Dur("retryIn", s.policy.CheckFailure).Msg("check failed")
		audit.Log(audit.Event{
			Type:        audit.EventCheckFailure,
			AccountID:   s.id,
			AccountName: s.name,
			Details:     map[string]interface{}{"code": string(apperrors.GetCode(err))},
		})
		if _, uerr := s.store.Update(s.id, func(st *model.AccountState) {
			st.SetStatus(model.AccountStatusCheckFailed)
			st.StatusText = display.RetryText(st.StatusText, s.policy.CheckFailure)
			st.SetError(err)
		}); uerr != nil {
			return 0, false, uerr
		}
		s.backoff(ctx, "check_failure", s.policy.CheckFailure)
		return 0, false, nil
	}

	if _, err := s.store.Update(s.id, func(st *model.AccountState) {
		st.NextClaimTime = &next
		st.SetStatus(model.AccountStatusCheckSucceeded)
		st.ClearError()
	}); err != nil {
		return 0, false, err
	}
	metrics.SetNextClaim(s.id, next)
	s.logger.Debug().Int64("nextClaimTime", next).Msg("next claim time received")

	return next, true, nil
}

// waitUntil sleeps once for the full remaining time. The wait is not
// re-evaluated while sleeping.
func (s *ClaimScheduler) waitUntil(ctx context.Context, next int64) error {
	wait := timestamp.CalculateWaitTime(&next, s.now())
	if wait <= 0 {
		return nil
	}

	if _, err := s.store.Update(s.id, func(st *model.AccountState) {
		st.SetStatus(model.AccountStatusWaiting)
		st.StatusText = display.WaitingText(wait)
	}); err != nil {
		return err
	}
	s.logger.Info().Dur("wait", wait).Msg("waiting for next claim window")

	s.sleep(ctx, wait)
	return nil
}

func (s *ClaimScheduler) claim(ctx context.Context) error {
	if err := s.setStatus(model.AccountStatusClaiming); err != nil {
		return err
	}

	result, err := s.client.SubmitClaim(ctx, s.token)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if !apperrors.IsClientFailure(err) {
			return err
		}

		s.logger.Warn().Err(err).Dur("retryIn", s.policy.ClaimFailure).Msg("claim failed")
		audit.Log(audit.Event{
			Type:        audit.EventClaimFailure,
			AccountID:   s.id,
			AccountName: s.name,
			Details:     map[string]interface{}{"code": string(apperrors.GetCode(err))},
		})
		if _, uerr := s.store.Update(s.id, func(st *model.AccountState) {
			st.SetStatus(model.AccountStatusClaimFailed)
			st.StatusText = display.RetryText(st.StatusText, s.policy.ClaimFailure)
			st.SetError(err)
		}); uerr != nil {
			return uerr
		}
		s.backoff(ctx, "claim_failure", s.policy.ClaimFailure)
		return nil
	}

	claimedAt := s.now().UnixMilli()
	updated, err := s.store.Update(s.id, func(st *model.AccountState) {
		st.ClaimCount++
		st.LastClaimTime = &claimedAt
		if result.Balance != nil {
			st.Balance = *result.Balance
		}
		st.SetStatus(model.AccountStatusClaimSucceeded)
		st.ClearError()
	})
	if err != nil {
		return err
	}

	metrics.RecordClaim(s.id, updated.Balance)
	audit.Log(audit.Event{
		Type:        audit.EventClaimSuccess,
		AccountID:   s.id,
		AccountName: s.name,
		Details: map[string]interface{}{
			"claim_count": updated.ClaimCount,
			"balance":     updated.Balance,
		},
	})

	s.sleep(ctx, s.policy.SuccessCooldown)
	return nil
}

func (s *ClaimScheduler) recoverFromError(ctx context.Context, err error) {
	schedErr := apperrors.Scheduler(err)
	s.logger.Error().Err(err).Dur("retryIn", s.policy.SchedulerError).Msg("scheduler error")
	audit.Log(audit.Event{
		Type:        audit.EventSchedulerError,
		AccountID:   s.id,
		AccountName: s.name,
		Details:     map[string]interface{}{"error": err},
	})

	if _, uerr := s.store.Update(s.id, func(st *model.AccountState) {
		st.SetStatus(model.AccountStatusSchedulerError)
		st.SetError(schedErr)
	}); uerr != nil {
		s.logger.Error().Err(uerr).Msg("failed to record scheduler error")
	}
	s.backoff(ctx, "scheduler_error", s.policy.SchedulerError)
}

func (s *ClaimScheduler) backoff(ctx context.Context, reason string, d time.Duration) {
	metrics.RecordBackoff(s.id, reason)
	s.sleep(ctx, d)
}

func (s *ClaimScheduler) setStatus(status model.AccountStatus) error {
	_, err := s.store.Update(s.id, func(st *model.AccountState) {
		st.SetStatus(status)
	})
	return err
}
