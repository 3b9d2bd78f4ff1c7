package domain

import "time"

// Day represents one calendar day of review activity.
type Day struct {
	Date        time.Time
	Sessions    int
	ReviewCount int
	Accuracy    float64
}

// DateString returns date in YYYYMMDD format
func (d Day) DateString() string {
	return d.Date.Format("20060102")
}

// DisplayString returns user-friendly date string
func (d Day) DisplayString() string {
	now := time.Now()
	date := d.Date

	// Check if today
	if date.Year() == now.Year() && date.Month() == now.Month() && date.Day() == now.Day() {
		return "Today"
	}

	// Check if yesterday
	yesterday := now.AddDate(0, 0, -1)
	if date.Year() == yesterday.Year() && date.Month() == yesterday.Month() && date.Day() == yesterday.Day() {
		return "Yesterday"
	}

	return date.Format("2 Jan 2006")
}
