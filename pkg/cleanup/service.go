// Package cleanup provides the background retention loop: purging
// hard-expired retired sentences and review log entries once their
// undo window has long since closed.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/houshuang/alif/pkg/config"
	"github.com/houshuang/alif/pkg/pool"
	"github.com/houshuang/alif/pkg/review"
)

// Service periodically enforces retention policies:
//   - Hard-deletes retired (is_active = false) sentences past their TTL
//   - Hard-deletes review log entries past their retention window
//
// Both operations are idempotent and safe to run from multiple processes.
type Service struct {
	cfg       config.RetentionConfig
	poolStore pool.Store
	log       review.Log

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg config.RetentionConfig, poolStore pool.Store, log review.Log) *Service {
	return &Service{cfg: cfg, poolStore: poolStore, log: log}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("cleanup service started",
		"review_log_retention_days", s.cfg.ReviewLogRetentionDays,
		"retired_sentence_ttl", s.cfg.RetiredSentenceTTL,
		"interval", s.cfg.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.purgeRetiredSentences(ctx)
	s.purgeOldReviewLogs(ctx)
}

func (s *Service) purgeRetiredSentences(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.RetiredSentenceTTL)
	count, err := s.poolStore.PurgeRetiredBefore(ctx, cutoff)
	if err != nil {
		slog.Error("retention: purge retired sentences failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("retention: purged retired sentences", "count", count)
	}
}

func (s *Service) purgeOldReviewLogs(ctx context.Context) {
	cutoff := time.Now().Add(-time.Duration(s.cfg.ReviewLogRetentionDays) * 24 * time.Hour)
	count, err := s.log.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("retention: purge review logs failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("retention: purged review logs", "count", count)
	}
}
