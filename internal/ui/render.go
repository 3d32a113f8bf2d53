package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/planweek/planweek/internal/layout"
	"github.com/planweek/planweek/internal/plan"
)

var quickAddTimeRe = regexp.MustCompile(`^(\d{1,2}:\d{2})-(\d{1,2}:\d{2})$`)

// ParseQuickAdd turns a quick-add line into a task on the given day.
// The line is "[HH:MM-HH:MM] name [!]": an optional leading time range,
// the task name, and an optional trailing "!" marking it important.
func ParseQuickAdd(line string, day time.Time) (plan.Task, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return plan.Task{}, fmt.Errorf("empty task")
	}

	var start, end string
	if m := quickAddTimeRe.FindStringSubmatch(fields[0]); m != nil {
		startMin, err := plan.ParseClock(m[1])
		if err != nil {
			return plan.Task{}, err
		}
		endMin, err := plan.ParseClock(m[2])
		if err != nil {
			return plan.Task{}, err
		}
		if endMin <= startMin {
			return plan.Task{}, fmt.Errorf("end time %s is not after start time %s", m[2], m[1])
		}
		start = plan.FormatClock(startMin)
		end = plan.FormatClock(endMin)
		fields = fields[1:]
	}

	priority := false
	if len(fields) > 0 && fields[len(fields)-1] == "!" {
		priority = true
		fields = fields[:len(fields)-1]
	}

	name := strings.Join(fields, " ")
	if name == "" {
		return plan.Task{}, fmt.Errorf("task needs a name")
	}

	task := plan.NewTask(name, day.Format(plan.DateLayout))
	task.Start = start
	task.End = end
	task.Priority = priority
	return task, nil
}

// RenderDay renders one day's tasks as indented lines. Timed tasks are
// laid out with the day layout engine so overlapping tasks are indented
// by their assigned column; all-day tasks come first.
func RenderDay(tasks []plan.Task) string {
	if len(tasks) == 0 {
		return dimStyle.Render("  (free)") + "\n"
	}

	var b strings.Builder

	byID := make(map[string]plan.Task, len(tasks))
	var intervals []layout.Interval
	for _, t := range tasks {
		byID[t.ID] = t
		if !t.Timed() {
			b.WriteString("  " + taskLabel(t) + "\n")
			continue
		}
		start, err := plan.ParseClock(t.Start)
		if err != nil {
			continue
		}
		end, err := plan.ParseClock(t.End)
		if err != nil {
			continue
		}
		intervals = append(intervals, layout.Interval{ID: t.ID, Start: start, End: end})
	}

	for _, p := range layout.Day(intervals) {
		t := byID[p.ID]
		indent := strings.Repeat("  ", p.Column+1)
		line := fmt.Sprintf("%s%s-%s %s", indent, t.Start, t.End, taskLabel(t))
		if p.GroupSize > 1 {
			line += dimStyle.Render(fmt.Sprintf("  [%d/%d]", p.Column+1, p.GroupSize))
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func taskLabel(t plan.Task) string {
	label := t.Name
	if t.Recurring {
		label += " ↻"
	}
	if t.Priority {
		return priorityStyle.Render(label + " !")
	}
	return label
}

// FormatRemaining renders a countdown as M:SS or H:MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
