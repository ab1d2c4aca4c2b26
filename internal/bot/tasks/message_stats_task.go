package tasks

import (
	"context"
	"fmt"
)

// newMessageStatsTask logs how many messages the store holds.
func newMessageStatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", MessageStats)

	return func(ctx context.Context) error {
		count, err := deps.Store.CountMessages(ctx)
		if err != nil {
			return fmt.Errorf("failed to count stored messages: %w", err)
		}
		log.InfoContext(ctx, "Stored message count", "messages", count)
		return nil
	}
}
