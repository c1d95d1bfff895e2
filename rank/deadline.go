package rank

import (
	"strings"
	"time"
)

// applyByLayout is the fixed calendar format for deadlines, e.g. "15-Mar-2025".
const applyByLayout = "2-Jan-2006"

const (
	recencyWindowDays = 30
	maxRecencyBoost   = 0.10
)

// RecencyBoost converts an application deadline into a time-decayed boost
// in [0, 0.10]. Urgency grows linearly as the deadline approaches: 1 day
// left is worth just under 0.10, 30 days left is worth 0. Deadlines in the
// past, more than 30 days out, unparseable, or missing contribute nothing.
// Many catalog items legitimately lack deadlines, so a bad date is silent.
func RecencyBoost(applyBy string, today time.Time) float64 {
	deadline, err := time.Parse(applyByLayout, strings.TrimSpace(applyBy))
	if err != nil {
		return 0
	}

	// Compare calendar days, not instants.
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	daysLeft := int(deadline.Sub(midnight).Hours() / 24)

	if daysLeft <= 0 || daysLeft > recencyWindowDays {
		return 0
	}
	return maxRecencyBoost * float64(recencyWindowDays-daysLeft) / float64(recencyWindowDays)
}
