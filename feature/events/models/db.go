package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is one provider's event, identified by (BaseEventID, ProviderName).
// StaleSince records the first stale mark of the current absence and is cleared
// when the event is observed again.
type Event struct {
	ID                 string      `gorm:"column:id;primaryKey;size:36"`
	BaseEventID        string      `gorm:"column:base_event_id;size:255;not null;uniqueIndex:uix_events_natural,priority:1"`
	ProviderName       string      `gorm:"column:provider_name;size:255;not null;uniqueIndex:uix_events_natural,priority:2;index"`
	Title              string      `gorm:"column:title;size:255;not null"`
	SellMode           *string     `gorm:"column:sell_mode;size:16"`
	OrganizerCompanyID *string     `gorm:"column:organizer_company_id;size:255"`
	EverOnline         bool        `gorm:"column:ever_online;not null;default:false;index"`
	FirstSeenAt        time.Time   `gorm:"column:first_seen_at;not null"`
	LastSeenAt         time.Time   `gorm:"column:last_seen_at;not null;index"`
	StaleSince         *time.Time  `gorm:"column:stale_since;index"`
	Plans              []EventPlan `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name.
func (Event) TableName() string {
	return "events"
}

// BeforeCreate assigns the surrogate identifier.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventPlan is a sellable occurrence of an Event, identified by (EventID, BasePlanID, ProviderName).
type EventPlan struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	EventID      string     `gorm:"column:event_id;size:36;not null;uniqueIndex:uix_event_plans_natural,priority:1"`
	BasePlanID   string     `gorm:"column:base_plan_id;size:255;not null;uniqueIndex:uix_event_plans_natural,priority:2"`
	ProviderName string     `gorm:"column:provider_name;size:255;not null;uniqueIndex:uix_event_plans_natural,priority:3"`
	StartDate    time.Time  `gorm:"column:start_date;not null;index"`
	EndDate      time.Time  `gorm:"column:end_date;not null;index"`
	SellFrom     time.Time  `gorm:"column:sell_from;not null"`
	SellTo       time.Time  `gorm:"column:sell_to;not null"`
	SoldOut      bool       `gorm:"column:sold_out;not null"`
	FirstSeenAt  time.Time  `gorm:"column:first_seen_at;not null"`
	LastSeenAt   time.Time  `gorm:"column:last_seen_at;not null"`
	StaleSince   *time.Time `gorm:"column:stale_since"`
	Zones        []Zone     `gorm:"foreignKey:EventPlanID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name.
func (EventPlan) TableName() string {
	return "event_plans"
}

// Zone is a priced category of an EventPlan, identified by (EventPlanID, ZoneID).
type Zone struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement"`
	EventPlanID uint       `gorm:"column:event_plan_id;not null;uniqueIndex:uix_zones_natural,priority:1"`
	ZoneID      string     `gorm:"column:zone_id;size:255;not null;uniqueIndex:uix_zones_natural,priority:2"`
	Name        string     `gorm:"column:name;size:255;not null"`
	Price       float64    `gorm:"column:price;not null"`
	Capacity    int        `gorm:"column:capacity;not null"`
	IsNumbered  bool       `gorm:"column:is_numbered;not null"`
	FirstSeenAt time.Time  `gorm:"column:first_seen_at;not null"`
	LastSeenAt  time.Time  `gorm:"column:last_seen_at;not null"`
	StaleSince  *time.Time `gorm:"column:stale_since"`
}

// TableName overrides the table name.
func (Zone) TableName() string {
	return "zones"
}

// Migrate creates or updates the event store tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Event{}, &EventPlan{}, &Zone{})
}

// ExpectedColumns lists, per table, the columns the engine reads and writes.
func ExpectedColumns() map[string][]string {
	return map[string][]string{
		Event{}.TableName(): {
			"id", "base_event_id", "provider_name", "title", "sell_mode",
			"organizer_company_id", "ever_online", "first_seen_at", "last_seen_at", "stale_since",
		},
		EventPlan{}.TableName(): {
			"id", "event_id", "base_plan_id", "provider_name", "start_date", "end_date",
			"sell_from", "sell_to", "sold_out", "first_seen_at", "last_seen_at", "stale_since",
		},
		Zone{}.TableName(): {
			"id", "event_plan_id", "zone_id", "name", "price", "capacity",
			"is_numbered", "first_seen_at", "last_seen_at", "stale_since",
		},
	}
}
