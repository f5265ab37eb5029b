package audit

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventClaimSuccess   EventType = "claim_success"
	EventClaimFailure   EventType = "claim_failure"
	EventCheckFailure   EventType = "check_failure"
	EventSchedulerError EventType = "scheduler_error"
	EventSchedulerStart EventType = "scheduler_start"
	EventSchedulerStop  EventType = "scheduler_stop"
)

type Event struct {
	Type        EventType
	AccountID   string
	AccountName string
	Details     map[string]interface{}
}

// Log writes a claim audit record through the global logger.
func Log(event Event) {
	logger := log.With().
		Str("audit", "claims").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.AccountID != "" {
		logger = logger.With().Str("account_id", event.AccountID).Logger()
	}
	if event.AccountName != "" {
		logger = logger.With().Str("account_name", event.AccountName).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("claim audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case uint64:
		return e.Uint64(key, v)
	case float64:
		return e.Float64(key, v)
	case bool:
		return e.Bool(key, v)
	case time.Duration:
		return e.Dur(key, v)
	case error:
		return e.AnErr(key, v)
	default:
		return e.Interface(key, v)
	}
}
