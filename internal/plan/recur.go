package plan

import (
	"fmt"
	"strings"
	"time"
)

// ParseClock parses an "HH:MM" time-of-day into minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hh*60 + mm, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// OccursOn reports whether the task has an occurrence on the given day.
// A non-recurring task occurs only on its anchor date. A recurring task
// occurs on every same-weekday date at or after its anchor, minus
// explicit exception dates.
func (t *Task) OccursOn(day time.Time) bool {
	anchor, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return false
	}
	// YYYY-MM-DD strings order the same way the dates do, which keeps
	// the comparison independent of the day argument's location.
	ds := day.Format(DateLayout)

	if !t.Recurring {
		return ds == t.Date
	}
	if ds < t.Date {
		return false
	}
	if day.Weekday() != anchor.Weekday() {
		return false
	}
	for _, exc := range t.Exceptions {
		if exc == ds {
			return false
		}
	}
	return true
}

// TasksOn returns the tasks occurring on the given day, in file order.
func (f *File) TasksOn(day time.Time) []Task {
	var out []Task
	for _, t := range f.Tasks {
		if t.OccursOn(day) {
			out = append(out, t)
		}
	}
	return out
}

// Week returns the seven days of the week containing day, starting on
// Monday.
func Week(day time.Time) [7]time.Time {
	day = truncateDay(day)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	monday := day.AddDate(0, 0, -offset)
	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
