package service

import (
	"context"
	"log/slog"
	"time"
)

// RunHistoryJanitor periodically removes histories that have not been written
// for longer than the session TTL. Their cookies have expired, so no client can
// reach them any more. It returns when ctx is done.
func (s *Service) RunHistoryJanitor(ctx context.Context) {
	if s.config.JanitorInterval <= 0 || s.config.SessionTTL <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purgeExpiredHistories(ctx, time.Now())
		}
	}
}

func (s *Service) purgeExpiredHistories(ctx context.Context, now time.Time) {
	sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	removed, err := s.store.PurgeOlderThan(sweepCtx, now.Add(-s.config.SessionTTL))
	if err != nil {
		slog.Warn("history purge failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		slog.Info("purged expired histories", slog.Int64("count", removed))
	}
}
