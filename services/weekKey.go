package services

import (
	"time"

	"github.com/ShepherdBook/models"
)

// WeekKeyFor maps an instant to the Monday-start week containing its calendar date in loc.
//
// WeekNumber keeps the day-of-year formula existing selections were stored under:
// ceil((dayOfYear0 + weekday(Jan 1) + 1) / 7) with Sunday as day 0. It is not an
// ISO-8601 week number. Near year boundaries the two disagree, and a Sunday already
// counts toward the next number even though its WeekStart is the preceding Monday.
func WeekKeyFor(t time.Time, loc *time.Location) models.WeekKey {
	if loc == nil {
		loc = time.Local
	}

	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	// Monday = 0 ... Sunday = 6
	sinceMonday := (int(day.Weekday()) + 6) % 7
	weekStart := time.Date(day.Year(), day.Month(), day.Day()-sinceMonday, 0, 0, 0, 0, loc)
	weekEnd := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+6, 23, 59, 59, int(999*time.Millisecond), loc)

	jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, loc)
	daysIntoYear := day.YearDay() - 1
	weekNumber := (daysIntoYear + int(jan1.Weekday()) + 1 + 6) / 7

	return models.WeekKey{
		Year:       day.Year(),
		WeekNumber: weekNumber,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
	}
}
