package wekan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "fractional seconds with Z suffix",
			input: "2030-01-01T00:00:00.000Z",
			want:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "millisecond precision",
			input: "2024-03-01T10:00:00.123Z",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC),
		},
		{
			name:  "no fractional seconds",
			input: "2024-03-01T10:00:00Z",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "numeric offset",
			input: "2024-03-01T12:00:00+02:00",
			want:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("", 2*60*60)),
		},
		{
			name:  "no offset taken as UTC",
			input: "2024-03-01T10:00:00.500",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 500_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISODate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseISODateRejectsGarbage(t *testing.T) {
	_, err := ParseISODate("yesterday-ish")
	assert.Error(t, err)
}

func TestISODateRoundTripMillisecondPrecision(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2030, 6, 15, 8, 30, 0, 0, time.FixedZone("CEST", 2*60*60)),
	}

	for _, original := range times {
		parsed, err := ParseISODate(FormatISODate(original))
		require.NoError(t, err)
		assert.True(t, original.Truncate(time.Millisecond).Equal(parsed),
			"round trip of %s yielded %s", original, parsed)
	}
}
