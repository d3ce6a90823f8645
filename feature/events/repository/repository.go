package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-catalog/core/clock"
	"event-catalog/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultBatchSize is the number of events committed per transaction.
	DefaultBatchSize = 100
	// DefaultStaleOffset is subtracted from the call timestamp when marking rows stale.
	DefaultStaleOffset = time.Second
)

// Repository reconciles provider snapshots into the event store and serves range queries.
type Repository struct {
	db          *gorm.DB
	logger      *zap.Logger
	clock       clock.Clock
	batchSize   int
	staleOffset time.Duration
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock the call timestamp is read from.
func WithClock(c clock.Clock) Option {
	return func(r *Repository) { r.clock = c }
}

// WithBatchSize sets the number of events per transaction. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithStaleOffset sets the offset used for stale marks. Non-positive values are ignored.
func WithStaleOffset(d time.Duration) Option {
	return func(r *Repository) {
		if d > 0 {
			r.staleOffset = d
		}
	}
}

// New creates a repository over db.
func New(db *gorm.DB, logger *zap.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		db:          db,
		logger:      logger,
		clock:       clock.NewSystem(),
		batchSize:   DefaultBatchSize,
		staleOffset: DefaultStaleOffset,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UpsertResult summarizes one reconciliation call.
type UpsertResult struct {
	// Events is the number of events written.
	Events int
	// Skipped is the number of events rejected before any write.
	Skipped int
	// Batches is the number of committed batches.
	Batches int
	// StaleEvents is the number of events retired by the provider-wide pass.
	StaleEvents int64
	// ObservedAt is the timestamp written to every row seen in this call.
	ObservedAt time.Time
}

// Upsert reconciles a snapshot into the store.
//
// Every row present in the snapshot gets last_seen_at = T, the single timestamp of
// this call. Plans and zones of a written event that are missing from the snapshot
// get T minus the stale offset, and stale_since keeps the first such mark until
// the row is seen again. Batches commit in order and the first storage
// failure rolls back its batch and stops the call. When providerFilter is set,
// events of that provider absent from the whole snapshot are stale-marked in a
// final, separate transaction.
func (r *Repository) Upsert(ctx context.Context, events []models.ParsedEvent, providerFilter string) (UpsertResult, error) {
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	stale := now.Add(-r.staleOffset)
	result := UpsertResult{ObservedAt: now}

	log := r.logger
	if providerFilter != "" {
		log = log.With(zap.String("provider", providerFilter))
	}

	seen := make([]string, 0, len(events))
	for start := 0; start < len(events); start += r.batchSize {
		end := min(start+r.batchSize, len(events))
		batch := events[start:end]

		var written []string
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			written = written[:0]
			for _, pe := range batch {
				if err := r.admit(pe, providerFilter); err != nil {
					log.Warn("Skipping event",
						zap.String("base_plan_id", pe.ID),
						zap.String("event_provider", pe.ProviderName),
						zap.Error(err),
					)
					continue
				}
				if err := r.upsertEvent(tx, pe, now, stale); err != nil {
					return fmt.Errorf("event %s: %w", pe.ID, err)
				}
				written = append(written, pe.ID)
			}
			return nil
		})
		if err != nil {
			log.Error("Batch rolled back", zap.Int("batch", result.Batches+1), zap.Error(err))
			return result, fmt.Errorf("%w: batch %d: %w", ErrStorage, result.Batches+1, err)
		}

		result.Batches++
		result.Events += len(written)
		result.Skipped += len(batch) - len(written)
		seen = append(seen, written...)
		log.Debug("Batch committed", zap.Int("batch", result.Batches), zap.Int("events", len(written)))
	}

	if providerFilter != "" {
		retired, err := r.retireAbsentEvents(ctx, providerFilter, seen, stale)
		if err != nil {
			log.Error("Provider stale pass rolled back", zap.Error(err))
			return result, fmt.Errorf("%w: stale pass: %w", ErrStorage, err)
		}
		result.StaleEvents = retired
	}

	log.Info("Snapshot reconciled",
		zap.Int("events", result.Events),
		zap.Int("skipped", result.Skipped),
		zap.Int("batches", result.Batches),
		zap.Int64("stale_events", result.StaleEvents),
	)
	return result, nil
}

// admit reports why an event must not be written, or nil.
func (r *Repository) admit(pe models.ParsedEvent, providerFilter string) error {
	if pe.ID == "" || pe.ProviderName == "" {
		return ErrIdentityMissing
	}
	if providerFilter != "" && pe.ProviderName != providerFilter {
		return fmt.Errorf("provider %q does not match %q", pe.ProviderName, providerFilter)
	}
	return pe.Validate()
}

func (r *Repository) upsertEvent(tx *gorm.DB, pe models.ParsedEvent, now, stale time.Time) error {
	var event models.Event
	found, err := take(tx.Where("base_event_id = ? AND provider_name = ?", pe.ID, pe.ProviderName), &event)
	if err != nil {
		return err
	}

	sellMode := models.NormalizeSellMode(pe.SellMode)
	online := sellMode != nil && *sellMode == models.SellModeOnline

	if !found {
		event = models.Event{
			BaseEventID:        pe.ID,
			ProviderName:       pe.ProviderName,
			Title:              pe.Title,
			SellMode:           sellMode,
			OrganizerCompanyID: pe.OrganizerCompanyID,
			EverOnline:         online,
			FirstSeenAt:        now,
			LastSeenAt:         now,
		}
		if err := tx.Omit(clause.Associations).Create(&event).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Model(&event).Updates(map[string]any{
			"title":                pe.Title,
			"sell_mode":            sellMode,
			"organizer_company_id": pe.OrganizerCompanyID,
			"ever_online":          event.EverOnline || online,
			"last_seen_at":         now,
			"stale_since":          nil,
		}).Error; err != nil {
			return err
		}
	}

	seenPlans := make([]string, 0, len(pe.Plans))
	for _, pp := range pe.Plans {
		if err := upsertPlan(tx, event.ID, pe.ProviderName, pp, now, stale); err != nil {
			return fmt.Errorf("plan %s: %w", pp.ID, err)
		}
		seenPlans = append(seenPlans, pp.ID)
	}

	absent := tx.Model(&models.EventPlan{}).Where("event_id = ? AND provider_name = ?", event.ID, pe.ProviderName)
	if len(seenPlans) > 0 {
		absent = absent.Where("base_plan_id NOT IN ?", seenPlans)
	}
	return absent.Updates(staleMark(stale)).Error
}

func upsertPlan(tx *gorm.DB, eventID, providerName string, pp models.ParsedEventPlan, now, stale time.Time) error {
	var plan models.EventPlan
	found, err := take(tx.Where("event_id = ? AND base_plan_id = ? AND provider_name = ?", eventID, pp.ID, providerName), &plan)
	if err != nil {
		return err
	}

	if !found {
		plan = models.EventPlan{
			EventID:      eventID,
			BasePlanID:   pp.ID,
			ProviderName: providerName,
			StartDate:    pp.StartDate,
			EndDate:      pp.EndDate,
			SellFrom:     pp.SellFrom,
			SellTo:       pp.SellTo,
			SoldOut:      pp.SoldOut,
			FirstSeenAt:  now,
			LastSeenAt:   now,
		}
		if err := tx.Omit(clause.Associations).Create(&plan).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Model(&plan).Updates(map[string]any{
			"start_date":   pp.StartDate,
			"end_date":     pp.EndDate,
			"sell_from":    pp.SellFrom,
			"sell_to":      pp.SellTo,
			"sold_out":     pp.SoldOut,
			"last_seen_at": now,
			"stale_since":  nil,
		}).Error; err != nil {
			return err
		}
	}

	seenZones := make([]string, 0, len(pp.Zones))
	for _, pz := range pp.Zones {
		if err := upsertZone(tx, plan.ID, pz, now); err != nil {
			return fmt.Errorf("zone %s: %w", pz.ID, err)
		}
		seenZones = append(seenZones, pz.ID)
	}

	absent := tx.Model(&models.Zone{}).Where("event_plan_id = ?", plan.ID)
	if len(seenZones) > 0 {
		absent = absent.Where("zone_id NOT IN ?", seenZones)
	}
	return absent.Updates(staleMark(stale)).Error
}

func upsertZone(tx *gorm.DB, planID uint, pz models.ParsedZone, now time.Time) error {
	var zone models.Zone
	found, err := take(tx.Where("event_plan_id = ? AND zone_id = ?", planID, pz.ID), &zone)
	if err != nil {
		return err
	}

	if !found {
		zone = models.Zone{
			EventPlanID: planID,
			ZoneID:      pz.ID,
			Name:        pz.Name,
			Price:       pz.Price,
			Capacity:    pz.Capacity,
			IsNumbered:  pz.Numbered,
			FirstSeenAt: now,
			LastSeenAt:  now,
		}
		return tx.Create(&zone).Error
	}

	return tx.Model(&zone).Updates(map[string]any{
		"name":         pz.Name,
		"price":        pz.Price,
		"capacity":     pz.Capacity,
		"is_numbered":  pz.Numbered,
		"last_seen_at": now,
		"stale_since":  nil,
	}).Error
}

// retireAbsentEvents stale-marks the provider's events whose id is not in seen.
func (r *Repository) retireAbsentEvents(ctx context.Context, provider string, seen []string, stale time.Time) (int64, error) {
	var retired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		absent := tx.Model(&models.Event{}).Where("provider_name = ?", provider)
		if len(seen) > 0 {
			absent = absent.Where("base_event_id NOT IN ?", seen)
		}
		res := absent.Updates(staleMark(stale))
		retired = res.RowsAffected
		return res.Error
	})
	return retired, err
}

// staleMark moves last_seen_at to stale and keeps the first stale_since of an ongoing absence.
func staleMark(stale time.Time) map[string]any {
	return map[string]any{
		"last_seen_at": stale,
		"stale_since":  gorm.Expr("COALESCE(stale_since, ?)", stale),
	}
}

// take loads the first row matching q into dest and reports whether one existed.
func take(q *gorm.DB, dest any) (bool, error) {
	err := q.Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
