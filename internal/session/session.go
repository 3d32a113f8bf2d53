// Package session tracks study sessions and their history.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	activeFileName  = "active-session.json"
	historyFileName = "sessions.json"
)

// Active is the currently running study session.
type Active struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	GoalID    string    `json:"goal_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Session is one finished study session.
type Session struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	GoalID      string    `json:"goal_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationMin int       `json:"duration_min"`
	Notes       string    `json:"notes,omitempty"`
}

// Store persists the active session and session history as JSON files
// in a single directory.
type Store struct {
	dir string
}

// NewStore creates a session store rooted at dir, creating it if
// needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("session dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Start begins a new study session. Only one session may run at a time.
func (s *Store) Start(subject, goalID string, now time.Time) (*Active, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is empty")
	}
	if cur, err := s.ActiveSession(); err != nil {
		return nil, err
	} else if cur != nil {
		return nil, fmt.Errorf("a session for %q is already running since %s", cur.Subject, cur.StartedAt.Format(time.RFC3339))
	}

	active := &Active{
		ID:        uuid.NewString(),
		Subject:   subject,
		GoalID:    goalID,
		StartedAt: now.UTC(),
	}
	if err := writeJSON(s.activePath(), active); err != nil {
		return nil, err
	}
	return active, nil
}

// ActiveSession returns the running session, or nil if none.
func (s *Store) ActiveSession() (*Active, error) {
	data, err := os.ReadFile(s.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read active session: %w", err)
	}
	var active Active
	if err := json.Unmarshal(data, &active); err != nil {
		return nil, fmt.Errorf("parse active session: %w", err)
	}
	return &active, nil
}

// Stop finalizes the running session and appends it to the history.
func (s *Store) Stop(notes string, now time.Time) (*Session, error) {
	active, err := s.ActiveSession()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, fmt.Errorf("no session is running")
	}

	now = now.UTC()
	duration := now.Sub(active.StartedAt)
	if duration < 0 {
		duration = 0
	}
	done := Session{
		ID:          active.ID,
		Subject:     active.Subject,
		GoalID:      active.GoalID,
		StartedAt:   active.StartedAt,
		EndedAt:     now,
		DurationMin: int(duration / time.Minute),
		Notes:       notes,
	}

	history, err := s.History()
	if err != nil {
		return nil, err
	}
	history = append(history, done)
	if err := writeJSON(s.historyPath(), history); err != nil {
		return nil, err
	}
	if err := os.Remove(s.activePath()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("clear active session: %w", err)
	}
	return &done, nil
}

// Abandon discards the running session without recording it.
func (s *Store) Abandon() error {
	if err := os.Remove(s.activePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}

// History returns all finished sessions, oldest first.
func (s *Store) History() ([]Session, error) {
	data, err := os.ReadFile(s.historyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []Session{}, nil
		}
		return nil, fmt.Errorf("read session history: %w", err)
	}
	var history []Session
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse session history: %w", err)
	}
	return history, nil
}

// Totals aggregates session minutes.
type Totals struct {
	Minutes    int
	PerDay     map[string]int // keyed by YYYY-MM-DD of the start time
	PerSubject map[string]int
}

// Summarize computes totals over the full history.
func Summarize(history []Session) Totals {
	totals := Totals{
		PerDay:     make(map[string]int),
		PerSubject: make(map[string]int),
	}
	for _, sess := range history {
		totals.Minutes += sess.DurationMin
		totals.PerDay[sess.StartedAt.Format("2006-01-02")] += sess.DurationMin
		totals.PerSubject[sess.Subject] += sess.DurationMin
	}
	return totals
}

// Subjects returns the distinct subjects in the history, sorted.
func Subjects(history []Session) []string {
	seen := map[string]bool{}
	var subjects []string
	for _, sess := range history {
		if !seen[sess.Subject] {
			seen[sess.Subject] = true
			subjects = append(subjects, sess.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}

func (s *Store) activePath() string {
	return filepath.Join(s.dir, activeFileName)
}

func (s *Store) historyPath() string {
	return filepath.Join(s.dir, historyFileName)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
