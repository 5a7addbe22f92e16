package extract

import (
	"fmt"
	"strings"
	"time"
)

// ClockParts are the calendar components of one timestamp, rendered in a
// particular timezone.
type ClockParts struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// TimestampFormatError reports a created-at string that matched none of
// the accepted layouts. The caller decides whether to abort or to emit
// empty time columns for the row.
type TimestampFormatError struct {
	Raw string
}

func (e *TimestampFormatError) Error() string {
	return fmt.Sprintf("unrecognized timestamp %q", e.Raw)
}

// createdAtLayouts are the RFC-2822-style forms tweet archives carry.
// Every layout requires a numeric UTC offset; zone abbreviations are
// ambiguous and never trusted.
var createdAtLayouts = []string{
	"Mon Jan 2 15:04:05 -0700 2006", // Twitter's native created_at
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// Decompose parses raw and returns its calendar components in the process
// local timezone. Local time rather than UTC is deliberate: recurring
// human activity (the 9am-5pm working day) should line up across a run
// even when the archive spans a DST change, so the embedded offset is
// normalized away rather than trusted to match the local zone. Two runs
// straddling a transition will show a one-hour discontinuity; that is the
// intended reading of local civil time, not a defect.
func Decompose(raw string) (ClockParts, error) {
	return DecomposeIn(raw, time.Local)
}

// DecomposeIn is Decompose rendered in an explicit timezone.
func DecomposeIn(raw string, loc *time.Location) (ClockParts, error) {
	clean := strings.Join(strings.Fields(raw), " ")
	for _, layout := range createdAtLayouts {
		t, err := time.Parse(layout, clean)
		if err != nil {
			continue
		}
		local := t.In(loc)
		year, month, day := local.Date()
		hour, minute, second := local.Clock()
		return ClockParts{
			Year:   year,
			Month:  int(month),
			Day:    day,
			Hour:   hour,
			Minute: minute,
			Second: second,
		}, nil
	}
	return ClockParts{}, &TimestampFormatError{Raw: raw}
}
