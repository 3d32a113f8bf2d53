package timeleft

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestUntil(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		due  time.Time
		want Remaining
	}{
		{
			name: "minutes only",
			now:  date(2026, time.March, 10, 9, 0),
			due:  date(2026, time.March, 10, 9, 45),
			want: Remaining{Minutes: 45, DueToday: true},
		},
		{
			name: "hours and minutes same day",
			now:  date(2026, time.March, 10, 9, 0),
			due:  date(2026, time.March, 10, 14, 30),
			want: Remaining{Hours: 5, Minutes: 30, DueToday: true},
		},
		{
			name: "days and hours",
			now:  date(2026, time.March, 10, 9, 0),
			due:  date(2026, time.March, 13, 12, 0),
			want: Remaining{Days: 3, Hours: 3},
		},
		{
			name: "weeks and days",
			now:  date(2026, time.March, 1, 0, 0),
			due:  date(2026, time.March, 25, 0, 0),
			want: Remaining{Weeks: 3, Days: 3},
		},
		{
			name: "months use calendar lengths",
			now:  date(2026, time.January, 15, 0, 0),
			due:  date(2026, time.March, 20, 0, 0),
			want: Remaining{Months: 2, Days: 5},
		},
		{
			name: "years then months",
			now:  date(2026, time.January, 1, 0, 0),
			due:  date(2027, time.March, 1, 0, 0),
			want: Remaining{Years: 1, Months: 2},
		},
		{
			name: "overdue yields flags not negatives",
			now:  date(2026, time.March, 10, 9, 0),
			due:  date(2026, time.March, 9, 9, 0),
			want: Remaining{Overdue: true},
		},
		{
			name: "overdue earlier today keeps due-today flag",
			now:  date(2026, time.March, 10, 18, 0),
			due:  date(2026, time.March, 10, 9, 0),
			want: Remaining{Overdue: true, DueToday: true},
		},
		{
			name: "due exactly now",
			now:  date(2026, time.March, 10, 9, 0),
			due:  date(2026, time.March, 10, 9, 0),
			want: Remaining{DueToday: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Until(tt.due, tt.now)
			if got != tt.want {
				t.Errorf("Until: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUntilFebruaryBoundary(t *testing.T) {
	// AddDate normalizes Jan 31 plus one month to Mar 3 in a 28-day
	// February, so the whole span counts as exactly one month.
	got := Until(date(2026, time.March, 3, 0, 0), date(2026, time.January, 31, 0, 0))
	want := Remaining{Months: 1}
	if got != want {
		t.Errorf("Until: got %+v, want %+v", got, want)
	}
}
