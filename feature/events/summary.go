package events

import (
	"time"

	"event-catalog/feature/events/models"
)

// EventSummary is the search projection of one event.
type EventSummary struct {
	ID        string   `json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Title     string   `json:"title" example:"Camela en concierto"`
	StartDate string   `json:"start_date" example:"2021-06-30"`
	StartTime string   `json:"start_time" example:"21:00:00"`
	EndDate   string   `json:"end_date" example:"2021-06-30"`
	EndTime   string   `json:"end_time" example:"22:00:00"`
	MinPrice  *float64 `json:"min_price" example:"15"`
	MaxPrice  *float64 `json:"max_price" example:"30"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Summarize projects an event with its plans: the earliest plan start, the latest
// plan end and the price range of the zones of every plan, in range or not.
// Prices are nil when the event has no zones.
func Summarize(e models.Event) EventSummary {
	s := EventSummary{ID: e.ID, Title: e.Title}

	var start, end time.Time
	for i, p := range e.Plans {
		if i == 0 || p.StartDate.Before(start) {
			start = p.StartDate
		}
		if i == 0 || p.EndDate.After(end) {
			end = p.EndDate
		}
		for _, z := range p.Zones {
			price := z.Price
			if s.MinPrice == nil || price < *s.MinPrice {
				s.MinPrice = &price
			}
			if s.MaxPrice == nil || price > *s.MaxPrice {
				s.MaxPrice = &price
			}
		}
	}

	if len(e.Plans) > 0 {
		start, end = start.UTC(), end.UTC()
		s.StartDate, s.StartTime = start.Format(dateLayout), start.Format(timeLayout)
		s.EndDate, s.EndTime = end.Format(dateLayout), end.Format(timeLayout)
	}
	return s
}
