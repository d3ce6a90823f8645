package repository

import (
	"context"
	"fmt"
	"time"

	"event-catalog/feature/events/models"

	"gorm.io/gorm"
)

// FindEventsInRange returns every event that was ever online and owns at least one
// plan starting within [startsAt, endsAt], bounds included. Each event appears once,
// with its plans and zones preloaded.
func (r *Repository) FindEventsInRange(ctx context.Context, startsAt, endsAt time.Time) ([]models.Event, error) {
	db := r.db.WithContext(ctx)

	matching := db.Model(&models.EventPlan{}).
		Select("event_id").
		Where("start_date BETWEEN ? AND ?", startsAt.UTC(), endsAt.UTC())

	var events []models.Event
	err := db.
		Where("ever_online = ?", true).
		Where("id IN (?)", matching).
		Preload("Plans", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("start_date, id")
		}).
		Preload("Plans.Zones", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id")
		}).
		Order("provider_name, base_event_id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("%w: range query: %w", ErrStorage, err)
	}

	return events, nil
}
