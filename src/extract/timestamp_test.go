package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeNormalizesOffset(t *testing.T) {
	// 08:00 at -0700 is 15:00 UTC. A decomposer that trusted the embedded
	// offset to already be local time would report hour 8 here.
	parts, err := DecomposeIn("Wed, 02 Oct 2002 08:00:00 -0700", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ClockParts{Year: 2002, Month: 10, Day: 2, Hour: 15, Minute: 0, Second: 0}, parts)
	assert.NotEqual(t, 8, parts.Hour)
}

func TestDecomposeAcceptedLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"twitter native", "Wed Oct 02 08:00:00 -0700 2002"},
		{"rfc 2822 comma form", "Wed, 02 Oct 2002 08:00:00 -0700"},
		{"no weekday", "02 Oct 2002 08:00:00 -0700"},
		{"single digit day", "Wed Oct 2 08:00:00 -0700 2002"},
		{"messy whitespace", "  Wed  Oct 02   08:00:00  -0700  2002 "},
	}
	want := ClockParts{Year: 2002, Month: 10, Day: 2, Hour: 15, Minute: 0, Second: 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := DecomposeIn(tt.raw, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, want, parts)
		})
	}
}

func TestDecomposeRendersInGivenZone(t *testing.T) {
	east := time.FixedZone("east2", 2*60*60)
	parts, err := DecomposeIn("Wed Oct 02 08:00:00 -0700 2002", east)
	require.NoError(t, err)
	assert.Equal(t, 17, parts.Hour)

	// An instant near local midnight moves the calendar date too.
	parts, err = DecomposeIn("Wed Oct 02 23:30:00 +0000 2002", east)
	require.NoError(t, err)
	assert.Equal(t, 3, parts.Day)
	assert.Equal(t, 1, parts.Hour)
}

// TestDecomposeDaylightSaving pins the accepted discontinuity: the same
// wall-clock UTC hour lands one local hour later once summer time starts.
func TestDecomposeDaylightSaving(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	before, err := DecomposeIn("Sat Mar 25 12:00:00 +0000 2017", london)
	require.NoError(t, err)
	after, err := DecomposeIn("Sun Mar 26 12:00:00 +0000 2017", london)
	require.NoError(t, err)
	assert.Equal(t, 12, before.Hour)
	assert.Equal(t, 13, after.Hour)
}

func TestDecomposeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a date", "yesterday-ish"},
		{"iso 8601", "2002-10-02T08:00:00Z"},
		{"named zone only", "Wed Oct 02 08:00:00 PST 2002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecomposeIn(tt.raw, time.UTC)
			var formatErr *TimestampFormatError
			require.True(t, errors.As(err, &formatErr), "expected TimestampFormatError, got %v", err)
			assert.Equal(t, tt.raw, formatErr.Raw)
		})
	}
}
