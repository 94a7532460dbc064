package report

import "time"

// HolidayLookup resolves holiday names for dates
type HolidayLookup interface {
	HolidayName(date time.Time) (string, bool)
}

// Cell is one slot of a rendered week or month
type Cell struct {
	Blank    bool           `json:"blank"`
	Day      Day            `json:"day"`
	Class    Classification `json:"class"`
	Progress float64        `json:"progress"`
	Band     ProgressBand   `json:"band"`
}

// Grid is a Monday-first 7-column month layout
type Grid struct {
	Offset int    `json:"offset"`
	Cells  []Cell `json:"cells"`
}

// Weeks splits the grid into rows of 7, padding the last row with blanks
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		end := i + 7
		row := make([]Cell, 0, 7)
		if end > len(g.Cells) {
			row = append(row, g.Cells[i:]...)
			for len(row) < 7 {
				row = append(row, Cell{Blank: true})
			}
		} else {
			row = append(row, g.Cells[i:end]...)
		}
		rows = append(rows, row)
	}
	return rows
}

// NewCell classifies a day for display
func NewCell(day Day, holidays HolidayLookup) Cell {
	var name string
	if holidays != nil {
		name, _ = holidays.HolidayName(day.Date)
	}
	progress := ProgressPercentage(day.WorkedHours, day.ShouldHours)
	return Cell{
		Day:      day,
		Class:    Classify(day, name),
		Progress: progress,
		Band:     Band(progress),
	}
}

// BuildMonthGrid lays out days in a Monday-first grid. The number of leading
// blank cells is derived from the weekday of the first day, or from its
// date when the weekday name is unknown.
func BuildMonthGrid(days []Day, holidays HolidayLookup) Grid {
	if len(days) == 0 {
		return Grid{}
	}

	offset := dayOffset(days[0])
	cells := make([]Cell, 0, offset+len(days))
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for _, d := range days {
		cells = append(cells, NewCell(d, holidays))
	}

	return Grid{Offset: offset, Cells: cells}
}

// BuildWeekRows classifies each day of a week report in order
func BuildWeekRows(days []Day, holidays HolidayLookup) []Cell {
	rows := make([]Cell, 0, len(days))
	for _, d := range days {
		rows = append(rows, NewCell(d, holidays))
	}
	return rows
}
