package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecencyBoost(t *testing.T) {
	today := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)

	format := func(t time.Time) string {
		return t.Format(applyByLayout)
	}

	tests := []struct {
		name    string
		applyBy string
		want    float64
	}{
		{
			name:    "one day left is almost the full boost",
			applyBy: format(today.AddDate(0, 0, 1)),
			want:    0.10 * 29.0 / 30.0,
		},
		{
			name:    "thirty days left is zero",
			applyBy: format(today.AddDate(0, 0, 30)),
			want:    0,
		},
		{
			name:    "past deadline is zero",
			applyBy: format(today.AddDate(0, 0, -1)),
			want:    0,
		},
		{
			name:    "thirty-one days out is zero",
			applyBy: format(today.AddDate(0, 0, 31)),
			want:    0,
		},
		{
			name:    "deadline today is zero",
			applyBy: format(today),
			want:    0,
		},
		{
			name:    "halfway through the window",
			applyBy: format(today.AddDate(0, 0, 15)),
			want:    0.10 * 15.0 / 30.0,
		},
		{
			name:    "unparseable date is zero",
			applyBy: "soon",
			want:    0,
		},
		{
			name:    "wrong format is zero",
			applyBy: "2025-03-15",
			want:    0,
		},
		{
			name:    "missing date is zero",
			applyBy: "",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyBoost(tt.applyBy, today)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRecencyBoost_IgnoresTimeOfDay(t *testing.T) {
	// The day count compares calendar days, so the boost is identical at
	// 00:01 and 23:59.
	morning := time.Date(2025, time.March, 1, 0, 1, 0, 0, time.UTC)
	night := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, RecencyBoost("11-Mar-2025", morning), RecencyBoost("11-Mar-2025", night))
}
