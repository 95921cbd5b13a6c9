package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

// PromptRotationJob activates the daily challenge prompt at midnight.
type PromptRotationJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *PromptRotationJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvidePromptRotationJob provides the daily prompt rotation job. It runs
// once on startup to cover a server that was down at midnight, then fires
// at each midnight in the store's calendar location.
func ProvidePromptRotationJob(i do.Injector) (*PromptRotationJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	challenge := do.MustInvoke[*service.ChallengeService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	loc := storeHandle.Location()

	rotate := func() {
		if _, err := challenge.Rotate(ctx, storeHandle.Today()); err != nil {
			log.Warn("Prompt rotation failed", "day", storeHandle.Today(), "error", err)
		}
	}

	go func() {
		rotate()

		for {
			now := time.Now().In(loc)
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
			timer := time.NewTimer(time.Until(midnight))

			select {
			case <-timer.C:
				rotate()
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()

	log.Info("Prompt rotation job started", "timezone", loc.String())

	return &PromptRotationJob{cancel: cancel}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// StoreGCJob runs periodic Badger value-log garbage collection.
type StoreGCJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *StoreGCJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideStoreGCJob provides the periodic database garbage collection job.
func ProvideStoreGCJob(i do.Injector) (*StoreGCJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := storeHandle.RunGC(); err != nil {
					log.Warn("Value-log GC failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return &StoreGCJob{cancel: cancel}, nil
}
