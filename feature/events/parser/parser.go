package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"event-catalog/core/utils"
	"event-catalog/feature/events/models"

	"go.uber.org/zap"
)

// ErrDocumentMalformed is returned when the document is blank or not well-formed XML.
var ErrDocumentMalformed = errors.New("malformed document")

// rootElement is the expected document root.
const rootElement = "planList"

type xmlPlanList struct {
	Outputs []xmlOutput `xml:"output"`
}

type xmlOutput struct {
	BasePlans []xmlBasePlan `xml:"base_plan"`
}

type xmlBasePlan struct {
	BasePlanID         *string   `xml:"base_plan_id,attr"`
	Title              *string   `xml:"title,attr"`
	SellMode           *string   `xml:"sell_mode,attr"`
	OrganizerCompanyID *string   `xml:"organizer_company_id,attr"`
	Plans              []xmlPlan `xml:"plan"`
}

type xmlPlan struct {
	PlanID        *string   `xml:"plan_id,attr"`
	PlanStartDate *string   `xml:"plan_start_date,attr"`
	PlanEndDate   *string   `xml:"plan_end_date,attr"`
	SellFrom      *string   `xml:"sell_from,attr"`
	SellTo        *string   `xml:"sell_to,attr"`
	SoldOut       *string   `xml:"sold_out,attr"`
	Zones         []xmlZone `xml:"zone"`
}

type xmlZone struct {
	ZoneID   *string `xml:"zone_id,attr"`
	Name     *string `xml:"name,attr"`
	Price    *string `xml:"price,attr"`
	Capacity *string `xml:"capacity,attr"`
	Numbered *string `xml:"numbered,attr"`
}

// Parser turns provider XML documents into parsed events.
type Parser struct {
	logger *zap.Logger
}

// New creates a parser that reports dropped elements to logger.
func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse decodes document and returns its events in document order.
//
// Blank or malformed documents fail as a whole. Below the document level a
// failing zone, plan or event is logged and dropped on its own, leaving its
// siblings and ancestors intact.
func (p *Parser) Parse(document, providerName string) ([]models.ParsedEvent, error) {
	if strings.TrimSpace(document) == "" {
		p.logger.Warn("Empty provider document", zap.String("provider", providerName))
		return nil, fmt.Errorf("%w: document is empty", ErrDocumentMalformed)
	}

	root, ok, err := decode(document)
	if err != nil {
		p.logger.Error("Provider document is not well-formed", zap.String("provider", providerName), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDocumentMalformed, err)
	}

	events := []models.ParsedEvent{}
	if !ok {
		p.logger.Warn("Provider document has no planList root", zap.String("provider", providerName))
		return events, nil
	}

	for _, out := range root.Outputs {
		for _, bp := range out.BasePlans {
			if event, ok := p.parseEvent(bp, providerName); ok {
				events = append(events, event)
			}
		}
	}
	return events, nil
}

// decode reads the whole document. ok is false when the root is not planList.
func decode(document string) (xmlPlanList, bool, error) {
	var root xmlPlanList
	d := xml.NewDecoder(strings.NewReader(document))

	start, err := nextRoot(d)
	if err != nil {
		return root, false, err
	}

	ok := start.Name.Local == rootElement
	if ok {
		err = d.DecodeElement(&root, &start)
	} else {
		err = d.Skip()
	}
	if err != nil {
		return root, false, err
	}

	// Only comments, processing instructions and whitespace may follow the root.
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return root, ok, nil
		}
		if err != nil {
			return root, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return root, false, fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return root, false, errors.New("unexpected text after document root")
			}
		}
	}
}

func nextRoot(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, errors.New("document has no root element")
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return xml.StartElement{}, errors.New("unexpected text before document root")
			}
		}
	}
}

func (p *Parser) parseEvent(bp xmlBasePlan, providerName string) (models.ParsedEvent, bool) {
	l := p.logger.With(zap.String("provider", providerName), zap.String("base_plan_id", value(bp.BasePlanID)))

	plans := make([]models.ParsedEventPlan, 0, len(bp.Plans))
	for _, xp := range bp.Plans {
		if plan, ok := p.parsePlan(xp, l); ok {
			plans = append(plans, plan)
		}
	}

	event, err := buildEvent(bp, providerName, plans)
	if err != nil {
		l.Error("Skipping base_plan", zap.Error(err))
		return models.ParsedEvent{}, false
	}
	return event, true
}

func (p *Parser) parsePlan(xp xmlPlan, l *zap.Logger) (models.ParsedEventPlan, bool) {
	l = l.With(zap.String("plan_id", value(xp.PlanID)))

	zones := make([]models.ParsedZone, 0, len(xp.Zones))
	for _, xz := range xp.Zones {
		zone, err := parseZone(xz)
		if err != nil {
			l.Error("Skipping zone", zap.String("zone_id", value(xz.ZoneID)), zap.Error(err))
			continue
		}
		zones = append(zones, zone)
	}

	plan, err := buildPlan(xp, zones)
	if err != nil {
		l.Error("Skipping plan", zap.Error(err))
		return models.ParsedEventPlan{}, false
	}
	return plan, true
}

func buildEvent(bp xmlBasePlan, providerName string, plans []models.ParsedEventPlan) (models.ParsedEvent, error) {
	id, err := required("base_plan_id", bp.BasePlanID)
	if err != nil {
		return models.ParsedEvent{}, err
	}
	title, err := required("title", bp.Title)
	if err != nil {
		return models.ParsedEvent{}, err
	}
	return models.NewParsedEvent(id, title, trimmed(bp.SellMode), trimmed(bp.OrganizerCompanyID), providerName, plans)
}

func buildPlan(xp xmlPlan, zones []models.ParsedZone) (models.ParsedEventPlan, error) {
	id, err := required("plan_id", xp.PlanID)
	if err != nil {
		return models.ParsedEventPlan{}, err
	}

	var w models.PlanWindow
	if w.StartDate, err = timestamp("plan_start_date", xp.PlanStartDate); err != nil {
		return models.ParsedEventPlan{}, err
	}
	if w.EndDate, err = timestamp("plan_end_date", xp.PlanEndDate); err != nil {
		return models.ParsedEventPlan{}, err
	}
	if w.SellFrom, err = timestamp("sell_from", xp.SellFrom); err != nil {
		return models.ParsedEventPlan{}, err
	}
	if w.SellTo, err = timestamp("sell_to", xp.SellTo); err != nil {
		return models.ParsedEventPlan{}, err
	}

	return models.NewParsedEventPlan(id, w, utils.ToFlag(value(xp.SoldOut)), zones)
}

func parseZone(xz xmlZone) (models.ParsedZone, error) {
	id, err := required("zone_id", xz.ZoneID)
	if err != nil {
		return models.ParsedZone{}, err
	}
	if xz.Name == nil {
		return models.ParsedZone{}, fmt.Errorf("%w: name is required", models.ErrInvalidElement)
	}
	rawPrice, err := required("price", xz.Price)
	if err != nil {
		return models.ParsedZone{}, err
	}
	price, err := utils.ToAmount(rawPrice)
	if err != nil {
		return models.ParsedZone{}, fmt.Errorf("%w: price: %v", models.ErrInvalidElement, err)
	}
	rawCapacity, err := required("capacity", xz.Capacity)
	if err != nil {
		return models.ParsedZone{}, err
	}
	capacity, err := utils.ToCount(rawCapacity)
	if err != nil {
		return models.ParsedZone{}, fmt.Errorf("%w: capacity: %v", models.ErrInvalidElement, err)
	}
	return models.NewParsedZone(id, *xz.Name, price, capacity, utils.ToFlag(value(xz.Numbered)))
}

// required returns the trimmed attribute, failing when it is absent or blank.
func required(name string, attr *string) (string, error) {
	if attr == nil || strings.TrimSpace(*attr) == "" {
		return "", fmt.Errorf("%w: %s is required", models.ErrInvalidElement, name)
	}
	return strings.TrimSpace(*attr), nil
}

func timestamp(name string, attr *string) (time.Time, error) {
	raw, err := required(name, attr)
	if err != nil {
		return time.Time{}, err
	}
	t, err := utils.ToTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", models.ErrInvalidElement, name, err)
	}
	return t, nil
}

// trimmed returns nil for absent or blank optional attributes.
func trimmed(attr *string) *string {
	if attr == nil {
		return nil
	}
	s := strings.TrimSpace(*attr)
	if s == "" {
		return nil
	}
	return &s
}

func value(attr *string) string {
	if attr == nil {
		return ""
	}
	return *attr
}
