package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/prompts"
)

// SoftError is a degraded-but-handled failure of an AI flow. Callers
// show Fallback to the user instead of the underlying error.
type SoftError struct {
	Fallback string
	Err      error
}

func (e *SoftError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Fallback, e.Err)
	}
	return e.Fallback
}

// Unwrap returns the underlying error.
func (e *SoftError) Unwrap() error {
	return e.Err
}

// ParsedTask is the model's reading of a natural-language task.
type ParsedTask struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Recurring bool   `json:"recurring,omitempty"`
}

// Task converts the parsed fields into a plan task.
func (p ParsedTask) Task() plan.Task {
	task := plan.NewTask(p.Name, p.Date)
	task.Start = p.Start
	task.End = p.End
	task.Recurring = p.Recurring
	return task
}

// ExchangeLogger receives one record per model exchange. The logging
// package's RunLogger writer satisfies the usual destination.
type ExchangeLogger interface {
	LogExchange(flow string, ok bool, detail string)
}

// Flows runs the AI flows against the model client.
type Flows struct {
	client   *Client
	store    *prompts.Store
	renderer *prompts.Renderer
	logger   ExchangeLogger

	// PromptWriter, when set, receives every rendered prompt before it
	// is sent to the model.
	PromptWriter io.Writer
}

// NewFlows creates the flow runner. The logger may be nil.
func NewFlows(client *Client, store *prompts.Store, logger ExchangeLogger) *Flows {
	return &Flows{
		client:   client,
		store:    store,
		renderer: prompts.NewRenderer(store),
		logger:   logger,
	}
}

// ParseTask turns one natural-language description into a task.
func (f *Flows) ParseTask(ctx context.Context, input string, now time.Time) (ParsedTask, error) {
	var parsed ParsedTask
	err := f.run(ctx, flowSpec{
		name:     "parse_task",
		prompt:   prompts.ParseTaskPrompt,
		schema:   prompts.ParseTaskSchema,
		fallback: "Sorry, I could not understand that task. Try adding it manually.",
		data:     prompts.NewData(input, "", now),
	}, &parsed)
	if err != nil {
		return ParsedTask{}, err
	}
	return parsed, nil
}

// SuggestSubtasks proposes subtask names for a goal. The existing
// subtask names are passed as context so the model avoids repeats.
func (f *Flows) SuggestSubtasks(ctx context.Context, goalName, existing string) ([]string, error) {
	var parsed struct {
		Subtasks []string `json:"subtasks"`
	}
	err := f.run(ctx, flowSpec{
		name:     "suggest_subtasks",
		prompt:   prompts.SuggestSubtasksPrompt,
		schema:   prompts.SuggestSubtasksSchema,
		fallback: "Sorry, no subtask suggestions right now. Add subtasks manually.",
		data:     prompts.NewData(goalName, existing, time.Now()),
	}, &parsed)
	if err != nil {
		return nil, err
	}
	return parsed.Subtasks, nil
}

// Chat answers a free-form planning question, optionally grounded in a
// rendered week overview.
func (f *Flows) Chat(ctx context.Context, message, weekContext string, now time.Time) (string, error) {
	var parsed struct {
		Reply string `json:"reply"`
	}
	err := f.run(ctx, flowSpec{
		name:     "chat",
		prompt:   prompts.ChatPrompt,
		schema:   prompts.ChatSchema,
		fallback: "Sorry, the assistant is unavailable right now.",
		data:     prompts.NewData(message, weekContext, now),
	}, &parsed)
	if err != nil {
		return "", err
	}
	return parsed.Reply, nil
}

type flowSpec struct {
	name     string
	prompt   string
	schema   string
	fallback string
	data     prompts.Data
}

// run renders, calls the model, extracts the JSON payload, and
// validates it against the flow's schema. All failures after rendering
// are soft.
func (f *Flows) run(ctx context.Context, spec flowSpec, out any) error {
	prompt, err := f.renderer.Render(spec.prompt, spec.data)
	if err != nil {
		return fmt.Errorf("render %s prompt: %w", spec.name, err)
	}
	if f.PromptWriter != nil {
		fmt.Fprintf(f.PromptWriter, "--- %s prompt ---\n%s\n---\n", spec.name, prompt)
	}

	reply, err := f.client.Complete(ctx, prompt)
	if err != nil {
		f.logExchange(spec.name, false, err.Error())
		return &SoftError{Fallback: spec.fallback, Err: err}
	}

	raw := ExtractJSON(reply)
	if raw == "" {
		f.logExchange(spec.name, false, "no JSON object in model reply")
		return &SoftError{Fallback: spec.fallback, Err: fmt.Errorf("no JSON object in model reply")}
	}

	if err := f.validate(spec.schema, raw); err != nil {
		f.logExchange(spec.name, false, err.Error())
		return &SoftError{Fallback: spec.fallback, Err: err}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		f.logExchange(spec.name, false, err.Error())
		return &SoftError{Fallback: spec.fallback, Err: fmt.Errorf("decode model reply: %w", err)}
	}

	f.logExchange(spec.name, true, "")
	return nil
}

func (f *Flows) validate(schemaName, raw string) error {
	schemaData, err := f.store.Schema(schemaName)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", schemaName, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaName, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("add schema %s: %w", schemaName, err)
	}
	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", schemaName, err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return fmt.Errorf("model reply is not valid JSON: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("model reply failed schema validation: %w", err)
	}
	return nil
}

func (f *Flows) logExchange(flow string, ok bool, detail string) {
	if f.logger == nil {
		return
	}
	f.logger.LogExchange(flow, ok, detail)
}
