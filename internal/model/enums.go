package model

type AccountStatus string

const (
	AccountStatusInitializing   AccountStatus = "initializing"
	AccountStatusChecking       AccountStatus = "checking"
	AccountStatusCheckSucceeded AccountStatus = "check_succeeded"
	AccountStatusCheckFailed    AccountStatus = "check_failed"
	AccountStatusWaiting        AccountStatus = "waiting"
	AccountStatusClaiming       AccountStatus = "claiming"
	AccountStatusClaimSucceeded AccountStatus = "claim_succeeded"
	AccountStatusClaimFailed    AccountStatus = "claim_failed"
	AccountStatusSchedulerError AccountStatus = "scheduler_error"
)

var statusText = map[AccountStatus]string{
	AccountStatusInitializing:   "initializing",
	AccountStatusChecking:       "checking next claim time...",
	AccountStatusCheckSucceeded: "check succeeded",
	AccountStatusCheckFailed:    "check failed",
	AccountStatusWaiting:        "waiting",
	AccountStatusClaiming:       "claiming reward...",
	AccountStatusClaimSucceeded: "claim succeeded",
	AccountStatusClaimFailed:    "claim failed",
	AccountStatusSchedulerError: "scheduler error",
}

func (s AccountStatus) Text() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return string(s)
}

// StatusClass groups statuses for presentation only.
type StatusClass string

const (
	StatusClassSuccess StatusClass = "success"
	StatusClassFailure StatusClass = "failure"
	StatusClassWaiting StatusClass = "waiting"
	StatusClassNeutral StatusClass = "neutral"
)

func (s AccountStatus) Class() StatusClass {
	switch s {
	case AccountStatusCheckSucceeded, AccountStatusClaimSucceeded:
		return StatusClassSuccess
	case AccountStatusCheckFailed, AccountStatusClaimFailed, AccountStatusSchedulerError:
		return StatusClassFailure
	case AccountStatusWaiting:
		return StatusClassWaiting
	default:
		return StatusClassNeutral
	}
}

// IsFailure reports whether the status denotes a failure phase.
func (s AccountStatus) IsFailure() bool {
	return s.Class() == StatusClassFailure
}
