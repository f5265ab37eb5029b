package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/repository"
)

const SnapshotEventType = "snapshot"

type SnapshotRenderer interface {
	Render(states []model.AccountState) error
}

type SnapshotPublisher interface {
	Publish(eventType string, data any) error
}

// RenderJob periodically renders a store snapshot and publishes it to
// status stream subscribers. It only reads the store.
type RenderJob struct {
	store     repository.AccountStateRepository
	renderer  SnapshotRenderer
	publisher SnapshotPublisher
	interval  time.Duration
}

func NewRenderJob(
	store repository.AccountStateRepository,
	renderer SnapshotRenderer,
	publisher SnapshotPublisher,
	interval time.Duration,
) *RenderJob {
	return &RenderJob{
		store:     store,
		renderer:  renderer,
		publisher: publisher,
		interval:  interval,
	}
}

// Run renders immediately and then on every tick until ctx is done.
func (j *RenderJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", j.interval).Msg("render job started")
	j.render()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("render job stopped")
			return
		case <-ticker.C:
			j.render()
		}
	}
}

func (j *RenderJob) render() {
	snapshot := j.store.Snapshot()

	if j.renderer != nil {
		if err := j.renderer.Render(snapshot); err != nil {
			log.Error().Err(err).Msg("failed to render status")
		}
	}
	if j.publisher != nil {
		if err := j.publisher.Publish(SnapshotEventType, snapshot); err != nil {
			log.Error().Err(err).Msg("failed to publish status snapshot")
		}
	}
}
