package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func feed(events ...string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n")
	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString(ev)
		b.WriteString("END:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

func TestParseWellFormedFeed(t *testing.T) {
	p := NewParser(zap.NewNop())

	events := p.Parse(feed(
		"UID:a1@airbnb.com\r\nDTSTART;VALUE=DATE:20260310\r\nDTEND;VALUE=DATE:20260315\r\nSUMMARY:Reserved\r\n",
	))

	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestParseDateTimeValues(t *testing.T) {
	p := NewParser(zap.NewNop())

	// Some exporters ship full timestamps; only the date part matters.
	events := p.Parse(feed(
		"UID:a2@airbnb.com\r\nDTSTART:20260401T160000Z\r\nDTEND:20260403T110000Z\r\nSUMMARY:Reserved\r\n",
	))

	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestParseSkipsEventMissingDtend(t *testing.T) {
	p := NewParser(zap.NewNop())

	events := p.Parse(feed(
		"UID:good@airbnb.com\r\nDTSTART;VALUE=DATE:20260310\r\nDTEND;VALUE=DATE:20260312\r\nSUMMARY:Reserved\r\n",
		"UID:bad@airbnb.com\r\nDTSTART;VALUE=DATE:20260320\r\nSUMMARY:Reserved\r\n",
	))

	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
}

func TestParseSkipsInvertedInterval(t *testing.T) {
	p := NewParser(zap.NewNop())

	events := p.Parse(feed(
		"UID:a3@airbnb.com\r\nDTSTART;VALUE=DATE:20260315\r\nDTEND;VALUE=DATE:20260310\r\nSUMMARY:Reserved\r\n",
	))

	assert.Empty(t, events)
}

func TestParseGarbageBody(t *testing.T) {
	p := NewParser(zap.NewNop())

	assert.Empty(t, p.Parse([]byte("<html>not a calendar</html>")))
	assert.Empty(t, p.Parse(nil))
}

func TestExpandDatesEndExclusive(t *testing.T) {
	dates := ExpandDates([]Event{
		{
			Start: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.Equal(t, []string{"2026-03-10", "2026-03-11", "2026-03-12"}, dates)
}

func TestExpandDatesMergesOverlaps(t *testing.T) {
	dates := ExpandDates([]Event{
		{
			Start: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.Equal(t, []string{"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13"}, dates)
}
