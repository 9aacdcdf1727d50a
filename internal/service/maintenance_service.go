package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuspulse/campus-events-api/pkg/jobs"
)

type imageURLSource interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

type sweepableStore interface {
	ListOlderThan(minAge time.Duration) ([]string, error)
	FilenameFromURL(publicURL string) string
	Delete(filename string) error
}

// MaintenanceService removes uploaded images that no event references
// anymore, for example after a failed submission or an image replacement.
// It runs as a handler on the background job queue.
type MaintenanceService struct {
	repo       imageURLSource
	store      sweepableStore
	minFileAge time.Duration
	logger     *zap.Logger
}

// NewMaintenanceService constructs the orphan sweeper. minFileAge guards
// against deleting files from submissions still in flight.
func NewMaintenanceService(repo imageURLSource, store sweepableStore, minFileAge time.Duration, logger *zap.Logger) *MaintenanceService {
	if minFileAge <= 0 {
		minFileAge = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{repo: repo, store: store, minFileAge: minFileAge, logger: logger}
}

// SweepJobType labels queued sweep jobs.
const SweepJobType = "orphan-image-sweep"

// Handler adapts the sweep to the job queue.
func (s *MaintenanceService) Handler() jobs.Handler {
	return func(ctx context.Context, _ jobs.Job) error {
		return s.Sweep(ctx)
	}
}

// Sweep deletes stored images older than the minimum age that no event
// row references.
func (s *MaintenanceService) Sweep(ctx context.Context) error {
	urls, err := s.repo.ImageURLs(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if name := s.store.FilenameFromURL(u); name != "" {
			referenced[name] = struct{}{}
		}
	}

	candidates, err := s.store.ListOlderThan(s.minFileAge)
	if err != nil {
		return err
	}

	removed := 0
	for _, name := range candidates {
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := s.store.Delete(name); err != nil {
			s.logger.Sugar().Warnw("failed to delete orphaned image", "filename", name, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Sugar().Infow("orphaned images removed", "count", removed)
	}
	return nil
}
