// Package ics imports events from iCalendar files.
package ics

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planweek/planweek/internal/plan"
)

// Event is one imported calendar event.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Recurring   bool // an RRULE property was present
}

// Result holds the parsed events plus per-event warnings. A malformed
// event is skipped and reported as a warning instead of aborting the
// whole import.
type Result struct {
	Events   []Event
	Warnings []string
}

// Parse reads an iCalendar stream and extracts its VEVENT blocks.
func Parse(r io.Reader) (*Result, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}

	result := &Result{}
	var block []string
	inEvent := false
	eventNo := 0

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			block = block[:0]
		case line == "END:VEVENT":
			if !inEvent {
				continue
			}
			inEvent = false
			eventNo++
			ev, err := parseEvent(block)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("event %d skipped: %v", eventNo, err))
				continue
			}
			result.Events = append(result.Events, ev)
		case inEvent:
			block = append(block, line)
		}
	}

	return result, nil
}

// unfold reads lines and joins folded continuations (lines starting
// with a space or tab belong to the previous line, RFC 5545 §3.1).
func unfold(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseEvent(block []string) (Event, error) {
	var ev Event
	for _, line := range block {
		name, params, value, ok := splitProperty(line)
		if !ok {
			continue
		}
		switch name {
		case "UID":
			ev.UID = value
		case "SUMMARY":
			ev.Summary = unescape(value)
		case "DESCRIPTION":
			ev.Description = unescape(value)
		case "LOCATION":
			ev.Location = unescape(value)
		case "RRULE":
			ev.Recurring = true
		case "DTSTART":
			t, allDay, err := parseDateTime(value, params)
			if err != nil {
				return Event{}, fmt.Errorf("DTSTART: %w", err)
			}
			ev.Start = t
			ev.AllDay = allDay
		case "DTEND":
			t, _, err := parseDateTime(value, params)
			if err != nil {
				return Event{}, fmt.Errorf("DTEND: %w", err)
			}
			ev.End = t
		}
	}

	if ev.Start.IsZero() {
		return Event{}, fmt.Errorf("missing DTSTART")
	}
	if !ev.End.IsZero() && ev.End.Before(ev.Start) {
		return Event{}, fmt.Errorf("DTEND precedes DTSTART")
	}
	if ev.Summary == "" {
		ev.Summary = "(untitled)"
	}
	return ev, nil
}

// splitProperty parses "NAME;PARAM=V;PARAM=V:value" into its parts.
func splitProperty(line string) (name string, params map[string]string, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon <= 0 {
		return "", nil, "", false
	}
	head := line[:colon]
	value = line[colon+1:]

	parts := strings.Split(head, ";")
	name = strings.ToUpper(strings.TrimSpace(parts[0]))
	if name == "" {
		return "", nil, "", false
	}
	params = make(map[string]string)
	for _, p := range parts[1:] {
		if eq := strings.Index(p, "="); eq > 0 {
			params[strings.ToUpper(p[:eq])] = p[eq+1:]
		}
	}
	return name, params, value, true
}

func parseDateTime(value string, params map[string]string) (time.Time, bool, error) {
	if params["VALUE"] == "DATE" || len(value) == 8 {
		t, err := time.ParseInLocation("20060102", value, time.Local)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid date %q", value)
		}
		return t, true, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid UTC date-time %q", value)
		}
		return t, false, nil
	}

	loc := time.Local
	if tzid := params["TZID"]; tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation("20060102T150405", value, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date-time %q", value)
	}
	return t, false, nil
}

// unescape reverses iCalendar text escaping.
func unescape(s string) string {
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\N`, "\n",
		`\,`, ",",
		`\;`, ";",
		`\\`, `\`,
	)
	return replacer.Replace(s)
}

// joinNonEmpty joins the non-empty parts with a separator.
func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " @ ")
}

// ToTask converts an imported event into a plan task.
func ToTask(ev Event) plan.Task {
	task := plan.NewTask(ev.Summary, ev.Start.Format(plan.DateLayout))
	task.Description = joinNonEmpty(ev.Description, ev.Location)
	task.Recurring = ev.Recurring
	if ev.UID != "" {
		task.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("planweek:ics:"+ev.UID)).String()
	}
	if !ev.AllDay && !ev.End.IsZero() && ev.End.After(ev.Start) {
		// Multi-day timed events are anchored to their start day.
		task.Start = ev.Start.Format("15:04")
		end := ev.End
		if end.Format(plan.DateLayout) != ev.Start.Format(plan.DateLayout) {
			task.End = "23:59"
		} else {
			task.End = end.Format("15:04")
		}
	}
	return task
}

// ToTasks converts all events of a parse result.
func ToTasks(result *Result) []plan.Task {
	tasks := make([]plan.Task, 0, len(result.Events))
	for _, ev := range result.Events {
		tasks = append(tasks, ToTask(ev))
	}
	return tasks
}
