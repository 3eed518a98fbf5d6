package withdrawal

import (
	"math"
	"time"
)

// BaseMonthlyLimit is the withdrawal cap before any escalation.
const BaseMonthlyLimit = 100.0

// escalationAnniversary is the month and day the limit steps up each year.
const (
	escalationMonth = time.April
	escalationDay   = 3
	escalationBase  = 2026
	escalationRate  = 1.1
)

// MonthlyLimit returns the withdrawal cap in effect on the given day.
// The cap starts at BaseMonthlyLimit and compounds 10% on each April 3
// anniversary from 2027 onward. Years before 2027 always get the base cap.
func MonthlyLimit(today time.Time) float64 {
	year := today.Year()
	if year < escalationBase+1 {
		return BaseMonthlyLimit
	}

	yearsPassed := year - escalationBase
	anniversary := time.Date(year, escalationMonth, escalationDay, 0, 0, 0, 0, time.UTC)
	if today.Before(anniversary) {
		yearsPassed--
	}
	if yearsPassed <= 0 {
		return BaseMonthlyLimit
	}
	return round2(BaseMonthlyLimit * math.Pow(escalationRate, float64(yearsPassed)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
