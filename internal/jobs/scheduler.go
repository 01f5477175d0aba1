package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"clubportal/api/internal/service"
)

const maintenanceStream = "portal:maintenance"

// Scheduler runs nightly maintenance: soft-deleted chat messages past the
// retention window are purged, and an audit event is pushed onto the redis
// stream for external tooling. Waiting-list entries are never pruned; a
// denied device stays denied.
type Scheduler struct {
	cron      *cron.Cron
	chat      service.ChatStore
	queue     *redis.Client
	retention time.Duration
	log       zerolog.Logger
}

func NewScheduler(chat service.ChatStore, queue *redis.Client, retention time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		chat:      chat,
		queue:     queue,
		retention: retention,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeDeletedMessages); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for any running job to finish, up to
// five seconds.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeDeletedMessages() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	purged, err := s.chat.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Str("op", "purge_deleted_messages").Msg("purge failed")
		return
	}

	s.log.Info().Int64("purged", purged).Msg("deleted message purge complete")

	if s.queue == nil || purged == 0 {
		return
	}
	if _, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: maintenanceStream,
		Values: map[string]any{
			"type":   "purge_deleted_messages",
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		},
	}).Result(); err != nil {
		s.log.Warn().Err(err).Msg("maintenance stream publish failed")
	}
}
