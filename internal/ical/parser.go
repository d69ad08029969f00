package ical

import (
	"bytes"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Event is one blocked interval taken from an upstream calendar feed.
// End is exclusive: the upstream provider treats the checkout day as
// free, so it never appears in the derived date list.
type Event struct {
	Start time.Time
	End   time.Time
}

type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	return &Parser{
		log: log.With(zap.String("component", "ical_parser")),
	}
}

// Parse extracts blocked intervals from a raw feed body. Malformed
// events are skipped, a body that is not a calendar at all yields an
// empty result. Parse never fails: the calendar page must keep
// rendering with whatever could be read.
func (p *Parser) Parse(body []byte) []Event {
	if len(body) == 0 {
		return nil
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		p.log.Warn("Unparsable calendar feed, treating as empty", zap.Error(err))
		return nil
	}

	var events []Event
	for _, ve := range cal.Events() {
		start, ok := eventDate(ve, ics.ComponentPropertyDtStart)
		if !ok {
			p.log.Warn("Calendar event missing or bad DTSTART, skipped")
			continue
		}
		end, ok := eventDate(ve, ics.ComponentPropertyDtEnd)
		if !ok {
			p.log.Warn("Calendar event missing or bad DTEND, skipped")
			continue
		}
		if !end.After(start) {
			// Zero-length or inverted interval contributes no dates.
			continue
		}
		events = append(events, Event{Start: start, End: end})
	}

	return events
}

func eventDate(ve *ics.VEvent, name ics.ComponentProperty) (time.Time, bool) {
	prop := ve.GetProperty(name)
	if prop == nil || prop.Value == "" {
		return time.Time{}, false
	}
	return parseFeedDate(prop.Value)
}

// parseFeedDate handles both bare YYYYMMDD values and values carrying a
// time/zone suffix (e.g. 20260310T160000Z): everything from the first
// 'T' or 'Z' onward is dropped and the remaining 8 digits parsed.
func parseFeedDate(v string) (time.Time, bool) {
	if i := strings.IndexAny(v, "TZ"); i >= 0 {
		v = v[:i]
	}
	t, err := time.ParseInLocation("20060102", v, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExpandDates unions the [Start, End) day sequences of all events into
// a de-duplicated, ascending list of ISO dates.
func ExpandDates(events []Event) []string {
	seen := make(map[string]struct{})
	for _, ev := range events {
		for d := ev.Start; d.Before(ev.End); d = d.AddDate(0, 0, 1) {
			seen[d.Format(dateLayout)] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
