package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/socialfactory/rangers/pkg/logger"
)

// RetentionSweeper runs SweepRetention on a cron schedule until its
// context is cancelled.
type RetentionSweeper struct {
	store       Store
	schedule    string
	messageTTL  time.Duration
	artifactTTL time.Duration
}

// NewRetentionSweeper validates schedule as a cron expression.
func NewRetentionSweeper(store Store, schedule string, messageTTL, artifactTTL time.Duration) (*RetentionSweeper, error) {
	if !gronx.New().IsValid(schedule) {
		return nil, fmt.Errorf("invalid retention schedule %q", schedule)
	}
	return &RetentionSweeper{
		store:       store,
		schedule:    schedule,
		messageTTL:  messageTTL,
		artifactTTL: artifactTTL,
	}, nil
}

// Run blocks until ctx is cancelled, sweeping at each schedule tick.
func (r *RetentionSweeper) Run(ctx context.Context) error {
	for {
		next, err := gronx.NextTick(r.schedule, false)
		if err != nil {
			return fmt.Errorf("next retention tick: %w", err)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		r.SweepOnce(ctx)
	}
}

// SweepOnce runs one retention pass. Errors are logged, not returned;
// a failed sweep must not take the sweeper down.
func (r *RetentionSweeper) SweepOnce(ctx context.Context) {
	result, err := r.store.SweepRetention(ctx, r.messageTTL, r.artifactTTL)
	if err != nil {
		logger.WarnCF("memory", "retention sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if result.MessagesDeleted > 0 || result.ArtifactsDeleted > 0 {
		logger.InfoCF("memory", "retention sweep", map[string]interface{}{
			"messages_deleted":  result.MessagesDeleted,
			"artifacts_deleted": result.ArtifactsDeleted,
		})
	}
}
