package repository

import (
	"context"
	"fmt"
	"time"

	"event-catalog/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PruneStale deletes the provider's events that have been absent from every sync since
// before olderThan, together with their plans and zones, in one transaction. It
// returns the number of events removed.
func (r *Repository) PruneStale(ctx context.Context, provider string, olderThan time.Time) (int64, error) {
	if provider == "" {
		return 0, ErrIdentityMissing
	}

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Event{}).
			Where("provider_name = ? AND stale_since IS NOT NULL AND stale_since < ?", provider, olderThan.UTC()).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		plans := tx.Model(&models.EventPlan{}).Select("id").Where("event_id IN ?", ids)
		if err := tx.Where("event_plan_id IN (?)", plans).Delete(&models.Zone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id IN ?", ids).Delete(&models.EventPlan{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Event{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: prune: %w", ErrStorage, err)
	}

	r.logger.Info("Pruned stale events",
		zap.String("provider", provider),
		zap.Time("older_than", olderThan),
		zap.Int64("events", removed),
	)
	return removed, nil
}
