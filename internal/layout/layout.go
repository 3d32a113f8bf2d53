// Package layout assigns side-by-side columns to time-overlapping tasks
// within a single day.
package layout

import "sort"

// Interval is the minimal task data needed for day layout.
// Start and End are minutes from midnight.
type Interval struct {
	ID    string
	Start int
	End   int
}

// Placement describes where one task is drawn within the day column.
// WidthPct and LeftPct are percentages of the day column width.
type Placement struct {
	ID        string
	Column    int
	GroupSize int
	WidthPct  float64
	LeftPct   float64
	ZIndex    int
}

// Width and offset constants for the day column.
const (
	soloWidthPct    = 98.0
	soloLeftPct     = 1.0
	groupWidthPct   = 75.0
	groupShiftTotal = 25.0
)

// Day computes placements for one day's tasks so that temporally
// overlapping tasks never visually collide. Intervals with End <= Start
// are excluded from the result. The function is pure: identical input
// always yields identical output.
func Day(intervals []Interval) []Placement {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.End <= iv.Start {
			continue
		}
		valid = append(valid, iv)
	}
	if len(valid) == 0 {
		return nil
	}

	// Sort by start ascending, ties broken by end ascending. SliceStable
	// keeps input order for fully identical intervals.
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End < valid[j].End
	})

	// Greedy first-fit column assignment. A column is free when the last
	// interval placed in it ends at or before the candidate's start.
	columns := make([]int, 0, 4) // last end time per column
	colOf := make([]int, len(valid))
	for i, iv := range valid {
		placed := false
		for c := range columns {
			if columns[c] <= iv.Start {
				columns[c] = iv.End
				colOf[i] = c
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, iv.End)
			colOf[i] = len(columns) - 1
		}
	}

	out := make([]Placement, len(valid))
	for i, iv := range valid {
		// Group size is one more than the highest column used by any
		// interval that strictly overlaps this one.
		maxCol := colOf[i]
		for j, other := range valid {
			if j == i {
				continue
			}
			if overlaps(iv, other) && colOf[j] > maxCol {
				maxCol = colOf[j]
			}
		}
		groupSize := maxCol + 1

		p := Placement{
			ID:        iv.ID,
			Column:    colOf[i],
			GroupSize: groupSize,
			ZIndex:    iv.Start,
		}
		if groupSize == 1 {
			p.WidthPct = soloWidthPct
			p.LeftPct = soloLeftPct
		} else {
			p.WidthPct = groupWidthPct
			p.LeftPct = float64(colOf[i]) * (groupShiftTotal / float64(groupSize-1))
		}
		out[i] = p
	}
	return out
}

func overlaps(a, b Interval) bool {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	return lo < hi
}
