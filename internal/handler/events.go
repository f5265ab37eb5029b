package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/reward-poller/internal/jobs"
	"github.com/openclaw/reward-poller/internal/metrics"
	"github.com/openclaw/reward-poller/internal/repository"
	"github.com/openclaw/reward-poller/internal/sse"
)

type EventsHandler struct {
	broker            *sse.Broker
	store             repository.AccountStateRepository
	heartbeatInterval time.Duration
}

func NewEventsHandler(broker *sse.Broker, store repository.AccountStateRepository) *EventsHandler {
	return &EventsHandler{
		broker:            broker,
		store:             store,
		heartbeatInterval: sse.HeartbeatInterval,
	}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.broker.Subscribe()
	defer h.broker.Unsubscribe(client)

	metrics.SSEClientConnected()
	defer metrics.SSEClientDisconnected()

	log.Info().
		Str("remoteAddr", r.RemoteAddr).
		Msg("sse connection established")

	// New subscribers see the current state without waiting for a tick.
	if err := h.sendEvent(w, flusher, jobs.SnapshotEventType, h.store.Snapshot()); err != nil {
		log.Error().Err(err).Msg("failed to send initial snapshot")
		return
	}

	ctx := r.Context()
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("remoteAddr", r.RemoteAddr).
				Msg("sse connection closed by client")
			return

		case <-client.Done:
			log.Info().
				Str("remoteAddr", r.RemoteAddr).
				Msg("sse connection closed by broker")
			return

		case event := <-client.Events:
			if err := h.sendRawEvent(w, flusher, event); err != nil {
				log.Error().Err(err).Msg("failed to send event")
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": ping\n\n"); err != nil {
				log.Debug().
					Str("remoteAddr", r.RemoteAddr).
					Msg("heartbeat failed, closing connection")
				return
			}
			flusher.Flush()
		}
	}
}

func (h *EventsHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return h.sendRawEvent(w, flusher, sse.Event{Type: eventType, Data: jsonData})
}

func (h *EventsHandler) sendRawEvent(w http.ResponseWriter, flusher http.Flusher, event sse.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
