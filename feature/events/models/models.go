package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidElement is returned when a parsed zone, plan or event fails validation.
var ErrInvalidElement = errors.New("invalid element")

// MaxIDLength bounds provider identifiers and titles, matching the column sizes.
const MaxIDLength = 255

// Sell modes accepted by the store. Anything else is persisted as NULL.
const (
	SellModeOnline  = "online"
	SellModeOffline = "offline"
)

// ParsedZone is a priced seating category of a plan, as published by a provider.
type ParsedZone struct {
	ID       string
	Name     string
	Price    float64
	Capacity int
	Numbered bool
}

// NewParsedZone builds a validated zone.
func NewParsedZone(id, name string, price float64, capacity int, numbered bool) (ParsedZone, error) {
	z := ParsedZone{ID: id, Name: name, Price: price, Capacity: capacity, Numbered: numbered}
	if err := z.Validate(); err != nil {
		return ParsedZone{}, err
	}
	return z, nil
}

// Validate checks the zone invariants.
func (z ParsedZone) Validate() error {
	if strings.TrimSpace(z.ID) == "" {
		return fmt.Errorf("%w: zone id is required", ErrInvalidElement)
	}
	if tooLong(z.ID) || tooLong(z.Name) {
		return fmt.Errorf("%w: zone %.32s exceeds %d characters", ErrInvalidElement, z.ID, MaxIDLength)
	}
	if z.Price < 0 {
		return fmt.Errorf("%w: zone %s price %v is negative", ErrInvalidElement, z.ID, z.Price)
	}
	if z.Capacity < 0 {
		return fmt.Errorf("%w: zone %s capacity %d is negative", ErrInvalidElement, z.ID, z.Capacity)
	}
	return nil
}

// ParsedEventPlan is one sellable occurrence of an event.
type ParsedEventPlan struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	SellFrom  time.Time
	SellTo    time.Time
	SoldOut   bool
	Zones     []ParsedZone
}

// PlanWindow groups the timestamps of a plan.
type PlanWindow struct {
	StartDate time.Time
	EndDate   time.Time
	SellFrom  time.Time
	SellTo    time.Time
}

// NewParsedEventPlan builds a validated plan. Zones are copied.
func NewParsedEventPlan(id string, window PlanWindow, soldOut bool, zones []ParsedZone) (ParsedEventPlan, error) {
	p := ParsedEventPlan{
		ID:        id,
		StartDate: window.StartDate.UTC(),
		EndDate:   window.EndDate.UTC(),
		SellFrom:  window.SellFrom.UTC(),
		SellTo:    window.SellTo.UTC(),
		SoldOut:   soldOut,
		Zones:     append([]ParsedZone(nil), zones...),
	}
	if err := p.Validate(); err != nil {
		return ParsedEventPlan{}, err
	}
	return p, nil
}

// Validate checks the plan invariants and those of its zones.
func (p ParsedEventPlan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: plan id is required", ErrInvalidElement)
	}
	if tooLong(p.ID) {
		return fmt.Errorf("%w: plan id %.32s exceeds %d characters", ErrInvalidElement, p.ID, MaxIDLength)
	}
	for name, ts := range map[string]time.Time{
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"sell_from":  p.SellFrom,
		"sell_to":    p.SellTo,
	} {
		if ts.IsZero() {
			return fmt.Errorf("%w: plan %s %s is required", ErrInvalidElement, p.ID, name)
		}
	}
	for _, z := range p.Zones {
		if err := z.Validate(); err != nil {
			return fmt.Errorf("plan %s: %w", p.ID, err)
		}
	}
	return nil
}

// ParsedEvent is a provider's base plan together with its plans.
type ParsedEvent struct {
	ID                 string
	Title              string
	SellMode           *string
	OrganizerCompanyID *string
	ProviderName       string
	Plans              []ParsedEventPlan
}

// NewParsedEvent builds a validated event. Plans are copied.
func NewParsedEvent(id, title string, sellMode, organizerCompanyID *string, providerName string, plans []ParsedEventPlan) (ParsedEvent, error) {
	e := ParsedEvent{
		ID:                 id,
		Title:              title,
		SellMode:           cloneString(sellMode),
		OrganizerCompanyID: cloneString(organizerCompanyID),
		ProviderName:       providerName,
		Plans:              append([]ParsedEventPlan(nil), plans...),
	}
	if err := e.Validate(); err != nil {
		return ParsedEvent{}, err
	}
	return e, nil
}

// Validate checks the event invariants and those of its plans.
func (e ParsedEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidElement)
	}
	if tooLong(e.ID) || tooLong(e.Title) {
		return fmt.Errorf("%w: event %.32s exceeds %d characters", ErrInvalidElement, e.ID, MaxIDLength)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event %s title is required", ErrInvalidElement, e.ID)
	}
	if strings.TrimSpace(e.ProviderName) == "" {
		return fmt.Errorf("%w: event %s provider name is required", ErrInvalidElement, e.ID)
	}
	for _, p := range e.Plans {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	return nil
}

// NormalizeSellMode lowercases the mode and drops values outside the closed set.
func NormalizeSellMode(mode *string) *string {
	if mode == nil {
		return nil
	}
	switch m := strings.ToLower(strings.TrimSpace(*mode)); m {
	case SellModeOnline, SellModeOffline:
		return &m
	default:
		return nil
	}
}

// tooLong counts characters, as the varchar columns do.
func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > MaxIDLength
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
