// Package plan parses, validates, and updates the plan file.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/planweek/planweek/internal/goal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Task is a single calendar entry, optionally timed and optionally
// recurring weekly on its anchor date's weekday.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date"`
	Start       string     `json:"start,omitempty"`
	End         string     `json:"end,omitempty"`
	Recurring   bool       `json:"recurring,omitempty"`
	Exceptions  []string   `json:"exceptions,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	Priority    bool       `json:"priority,omitempty"`
	Color       string     `json:"color,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Timed returns true if the task carries both a start and an end time.
func (t *Task) Timed() bool {
	return t.Start != "" && t.End != ""
}

// Weekday returns the weekday derived from the anchor date. Recurring
// tasks repeat on this weekday.
func (t *Task) Weekday() (time.Weekday, error) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return 0, fmt.Errorf("parse task date: %w", err)
	}
	return d.Weekday(), nil
}

// NewTask creates a task anchored to date with a fresh UUID.
func NewTask(name, date string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

// File represents the plan file structure.
type File struct {
	SchemaVersion int         `json:"schema_version"`
	Tasks         []Task      `json:"tasks"`
	Goals         []goal.Goal `json:"goals,omitempty"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to the JSON Schema file.
	// If empty, validation uses only minimal fallback checks.
	SchemaPath string
	// Strict requires all tasks to pass schema validation.
	Strict bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Load reads and parses a plan file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}

	return &f, nil
}

// LoadOrInit loads the plan file, returning an empty version-1 file if
// it does not exist yet.
func LoadOrInit(path string) (*File, error) {
	f, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{SchemaVersion: 1, Tasks: []Task{}}, nil
		}
		return nil, err
	}
	return f, nil
}

// Save writes the plan file to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan file: %w", err)
	}

	return nil
}

// Validate validates the plan file.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	// Try JSON Schema validation first if schema path is provided
	if opts.SchemaPath != "" {
		schemaResult := validateWithSchema(f, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		if len(schemaResult.Warnings) > 0 {
			result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		}
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			// The schema cannot express cross-field rules like
			// start < end, so minimal checks still run.
			f.validateMinimal(result)
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	f.validateMinimal(result)

	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != 1 {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected 1, got %d", f.SchemaVersion),
		})
	}

	if f.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&task, path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
}

// validateTaskMinimal performs minimal task validation.
func validateTaskMinimal(task *Task, path string) *ValidationError {
	if task.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if task.Name == "" {
		return &ValidationError{
			Path: path + ".name",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if _, err := time.Parse(DateLayout, task.Date); err != nil {
		return &ValidationError{
			Path: path + ".date",
			Err:  fmt.Errorf("invalid date %q, want YYYY-MM-DD", task.Date),
		}
	}

	if task.DueDate != "" {
		if _, err := time.Parse(DateLayout, task.DueDate); err != nil {
			return &ValidationError{
				Path: path + ".due_date",
				Err:  fmt.Errorf("invalid date %q, want YYYY-MM-DD", task.DueDate),
			}
		}
	}

	if (task.Start == "") != (task.End == "") {
		return &ValidationError{
			Path: path + ".start",
			Err:  fmt.Errorf("start and end must be set together"),
		}
	}

	if task.Timed() {
		start, err := ParseClock(task.Start)
		if err != nil {
			return &ValidationError{Path: path + ".start", Err: err}
		}
		end, err := ParseClock(task.End)
		if err != nil {
			return &ValidationError{Path: path + ".end", Err: err}
		}
		if start >= end {
			return &ValidationError{
				Path: path + ".start",
				Err:  fmt.Errorf("start %s must precede end %s", task.Start, task.End),
			}
		}
	}

	if len(task.Exceptions) > 0 && !task.Recurring {
		return &ValidationError{
			Path: path + ".exceptions",
			Err:  fmt.Errorf("exceptions are only valid on recurring tasks"),
		}
	}
	for j, exc := range task.Exceptions {
		if _, err := time.Parse(DateLayout, exc); err != nil {
			return &ValidationError{
				Path: fmt.Sprintf("%s.exceptions[%d]", path, j),
				Err:  fmt.Errorf("invalid date %q, want YYYY-MM-DD", exc),
			}
		}
	}

	return nil
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(f *File, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return result
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return result
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return result
	}

	result.UsedSchema = true

	// Marshal the file back to JSON for validation
	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal file for validation: %w", err),
		})
		return result
	}

	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal file for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	if ptr == "" {
		return ""
	}
	if strings.HasPrefix(ptr, "#") {
		ptr = strings.TrimPrefix(ptr, "#")
	}
	if strings.HasPrefix(ptr, "/") {
		ptr = ptr[1:]
	}
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}

// GetTask returns a task by ID, or nil if not found.
func (f *File) GetTask(id string) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			return &f.Tasks[i]
		}
	}
	return nil
}

// AddTask appends a new task to the list.
func (f *File) AddTask(task Task) {
	now := time.Now().UTC()
	if task.CreatedAt == nil {
		task.CreatedAt = &now
	}
	task.UpdatedAt = &now
	f.Tasks = append(f.Tasks, task)
}

// UpdateTask updates an existing task by ID.
func (f *File) UpdateTask(id string, updater func(*Task)) error {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			updater(&f.Tasks[i])
			now := time.Now().UTC()
			f.Tasks[i].UpdatedAt = &now
			return nil
		}
	}
	return fmt.Errorf("task %q not found", id)
}

// DeleteTask removes a task by ID.
func (f *File) DeleteTask(id string) error {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %q not found", id)
}

// AddException suppresses one occurrence of a recurring task.
func (f *File) AddException(id, date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid exception date %q: %w", date, err)
	}
	return f.UpdateTask(id, func(t *Task) {
		for _, exc := range t.Exceptions {
			if exc == date {
				return
			}
		}
		t.Exceptions = append(t.Exceptions, date)
	})
}

// GetGoal returns a goal by ID, or nil if not found.
func (f *File) GetGoal(id string) *goal.Goal {
	for i := range f.Goals {
		if f.Goals[i].ID == id {
			return &f.Goals[i]
		}
	}
	return nil
}

// AddGoal appends a new goal.
func (f *File) AddGoal(g goal.Goal) {
	f.Goals = append(f.Goals, g)
}

// DeleteGoal removes a goal by ID.
func (f *File) DeleteGoal(id string) error {
	for i := range f.Goals {
		if f.Goals[i].ID == id {
			f.Goals = append(f.Goals[:i], f.Goals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("goal %q not found", id)
}
