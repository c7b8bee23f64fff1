// Package calendar projects availability onto a fixed month grid.
package calendar

import (
	"time"

	"clinic-booking-gateway/internal/availability"
)

// GridSize is the fixed cell count of a month grid: six full
// Sunday-first weeks, padded with adjacent-month days.
const GridSize = 42

const dateKeyLayout = "2006-01-02"

// Day is one grid cell. Padding cells from adjacent months are never
// selectable; availability applies to current-month, non-past days only.
type Day struct {
	Date           time.Time `json:"date"`
	DateKey        string    `json:"dateKey"`
	DayOfMonth     int       `json:"dayOfMonth"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	IsToday        bool      `json:"isToday"`
	IsSelected     bool      `json:"isSelected"`
	IsAvailable    bool      `json:"isAvailable"`
	IsPast         bool      `json:"isPast"`
}

// MonthGrid builds the GridSize cells for the month containing anchor.
// Today/past flags use calendar-day granularity against now. A day is
// available only when it is in the current month, not past, and its date
// key appears in available with at least one slot. Pure: identical inputs
// always produce an identical grid.
func MonthGrid(anchor, now time.Time, available []availability.AvailableDate, selectedKey string) []Day {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	hasSlots := make(map[string]bool, len(available))
	for _, d := range available {
		if len(d.AvailableSlots) > 0 {
			hasSlots[d.Date] = true
		}
	}

	grid := make([]Day, 0, GridSize)

	// Trailing days of the previous month so the grid starts on Sunday.
	lead := int(first.Weekday())
	for i := lead; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		grid = append(grid, Day{
			Date:       d,
			DateKey:    d.Format(dateKeyLayout),
			DayOfMonth: d.Day(),
			IsPast:     true,
		})
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateKeyLayout)
		past := d.Before(today)
		grid = append(grid, Day{
			Date:           d,
			DateKey:        key,
			DayOfMonth:     d.Day(),
			IsCurrentMonth: true,
			IsToday:        d.Equal(today),
			IsSelected:     key == selectedKey,
			IsAvailable:    !past && hasSlots[key],
			IsPast:         past,
		})
	}

	// Leading days of the next month up to the fixed grid size.
	next := first.AddDate(0, 1, 0)
	for i := 0; len(grid) < GridSize; i++ {
		d := next.AddDate(0, 0, i)
		grid = append(grid, Day{
			Date:       d,
			DateKey:    d.Format(dateKeyLayout),
			DayOfMonth: d.Day(),
		})
	}

	return grid
}
