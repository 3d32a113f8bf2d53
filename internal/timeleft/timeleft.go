// Package timeleft decomposes the time remaining until a due date.
package timeleft

import "time"

// Remaining is a hierarchical breakdown of the time between now and a
// due date. Each unit is computed after subtracting the larger units, so
// the fields read as "X years, Y months, Z weeks, ..." rather than
// independent totals. Past-due and due-today are flags, never negative
// magnitudes.
type Remaining struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int

	Overdue  bool
	DueToday bool
}

// Until computes the remaining time from now to due using calendar-aware
// month and year arithmetic.
func Until(due, now time.Time) Remaining {
	r := Remaining{
		DueToday: sameDay(due, now),
	}
	if !due.After(now) {
		r.Overdue = due.Before(now)
		return r
	}

	cur := now
	for !cur.AddDate(1, 0, 0).After(due) {
		cur = cur.AddDate(1, 0, 0)
		r.Years++
	}
	for !cur.AddDate(0, 1, 0).After(due) {
		cur = cur.AddDate(0, 1, 0)
		r.Months++
	}
	for !cur.AddDate(0, 0, 7).After(due) {
		cur = cur.AddDate(0, 0, 7)
		r.Weeks++
	}
	for !cur.AddDate(0, 0, 1).After(due) {
		cur = cur.AddDate(0, 0, 1)
		r.Days++
	}

	rest := due.Sub(cur)
	r.Hours = int(rest / time.Hour)
	r.Minutes = int(rest/time.Minute) % 60
	return r
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
