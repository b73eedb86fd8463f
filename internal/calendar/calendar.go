// Package calendar provides the month arithmetic behind the wallpaper grid.
// Weeks start on Monday and months are addressed by a 0-based index.
package calendar

import "time"

// WeekdayLabels are the column headers of a month block, Monday first.
var WeekdayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// MonthNames holds the full English month names indexed by month index.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Month describes the shape of a single month.
type Month struct {
	DaysInMonth    int
	StartDayOffset int // empty leading cells before day 1 (0-6)
}

// DayCell is the position of a day inside the 7-column week grid of its month.
// Row 0 is the first week; the weekday header is not counted here.
type DayCell struct {
	Day       int
	Column    int // 0 = Monday
	Row       int
	Highlight bool
}

// MonthInfo returns the number of days and the Monday-first offset of day 1
// for the given year and 0-based month index.
func MonthInfo(year, monthIndex int) Month {
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month normalises to the last day of this one.
	last := time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC)

	return Month{
		DaysInMonth:    last.Day(),
		StartDayOffset: MondayOffset(first.Weekday()),
	}
}

// MondayOffset remaps a Sunday-first weekday to a Monday-first column.
func MondayOffset(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// IsToday reports whether day of the given month is the civil date of today.
func IsToday(today time.Time, year, monthIndex, day int) bool {
	return today.Year() == year && int(today.Month()) == monthIndex+1 && today.Day() == day
}

// Days lays out every day of a month on the week grid. At most one returned
// cell is highlighted, and only when today falls in the requested year.
func Days(year, monthIndex int, today time.Time) []DayCell {
	m := MonthInfo(year, monthIndex)
	cells := make([]DayCell, 0, m.DaysInMonth)

	col, row := m.StartDayOffset, 0
	for d := 1; d <= m.DaysInMonth; d++ {
		cells = append(cells, DayCell{
			Day:       d,
			Column:    col,
			Row:       row,
			Highlight: IsToday(today, year, monthIndex, d),
		})

		col++
		if col > 6 {
			col = 0
			row++
		}
	}
	return cells
}
