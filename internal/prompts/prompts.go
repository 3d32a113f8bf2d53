// Package prompts renders the prompt templates sent to the model.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"
)

// Prompt asset names. On-disk files in the prompt dir override the
// bundled defaults.
const (
	ParseTaskPrompt       = "parse_task.txt"
	SuggestSubtasksPrompt = "suggest_subtasks.txt"
	ChatPrompt            = "chat.txt"

	ParseTaskSchema       = "parse_task.schema.json"
	SuggestSubtasksSchema = "suggest_subtasks.schema.json"
	ChatSchema            = "chat.schema.json"
)

var bundledPrompts = map[string]string{
	ParseTaskPrompt: `You turn one natural-language task description into JSON.
Today is {{.Now}} and the current week starts on Monday.
Input: {{.Input}}

Respond with a single JSON object and nothing else:
{"name": string, "date": "YYYY-MM-DD", "start": "HH:MM" or "", "end": "HH:MM" or "", "recurring": bool}
Resolve relative dates ("tomorrow", "next tuesday") against today.
If no date is given, use today. If no times are given, leave start and end empty.`,

	SuggestSubtasksPrompt: `You break a study goal into concrete subtasks.
Goal: {{.Input}}
{{if .Context}}Existing subtasks: {{.Context}}
{{end}}
Respond with a single JSON object and nothing else:
{"subtasks": [string, ...]}
Suggest between three and seven short, actionable subtask names. Do not
repeat existing subtasks.`,

	ChatPrompt: `You are a study-planning assistant inside a weekly planner.
Today is {{.Now}}.
{{if .Context}}The user's plan for this week:
{{.Context}}
{{end}}User message: {{.Input}}

Respond with a single JSON object and nothing else:
{"reply": string}
Keep the reply short and practical.`,
}

var bundledSchemas = map[string]string{
	ParseTaskSchema: `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["name", "date"],
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
    "start": { "type": "string", "pattern": "^(([01]\\d|2[0-3]):[0-5]\\d)?$" },
    "end": { "type": "string", "pattern": "^(([01]\\d|2[0-3]):[0-5]\\d)?$" },
    "recurring": { "type": "boolean" }
  }
}`,
	SuggestSubtasksSchema: `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["subtasks"],
  "properties": {
    "subtasks": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    }
  }
}`,
	ChatSchema: `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["reply"],
  "properties": {
    "reply": { "type": "string", "minLength": 1 }
  }
}`,
}

// Data holds prompt template variables.
type Data struct {
	Input   string // the user's natural-language input
	Context string // optional context (existing subtasks, week overview)
	Now     string // RFC3339 timestamp
}

// NewData builds prompt data with a UTC timestamp formatted in RFC3339.
func NewData(input, context string, now time.Time) Data {
	return Data{
		Input:   input,
		Context: context,
		Now:     now.UTC().Format(time.RFC3339),
	}
}

// Store loads prompt assets, preferring the prompt dir over bundled
// defaults.
type Store struct {
	dir string
}

// NewStore creates a prompt store. An empty dir serves bundled assets
// only.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the prompt directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads a prompt asset as a string.
func (s *Store) Load(name string) (string, error) {
	if name == "" {
		return "", errors.New("prompt name is empty")
	}
	if s.dir != "" {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %q: %w", name, err)
		}
	}
	if tmpl, ok := bundledPrompts[name]; ok {
		return tmpl, nil
	}
	if schema, ok := bundledSchemas[name]; ok {
		return schema, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Schema returns the response schema JSON for a flow.
func (s *Store) Schema(name string) ([]byte, error) {
	raw, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

// Renderer renders templates with strict missing-key behavior.
type Renderer struct {
	store *Store
}

// NewRenderer creates a prompt renderer.
func NewRenderer(store *Store) *Renderer {
	return &Renderer{store: store}
}

// Render loads and renders a prompt template with required variable checks.
func (r *Renderer) Render(name string, data Data) (string, error) {
	if r == nil || r.store == nil {
		return "", errors.New("prompt renderer is not initialized")
	}
	if err := validateRequired(name, data); err != nil {
		return "", err
	}
	raw, err := r.store.Load(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

type requiredVar int

const (
	reqInput requiredVar = iota
	reqNow
)

var requiredByPrompt = map[string][]requiredVar{
	ParseTaskPrompt:       {reqInput, reqNow},
	SuggestSubtasksPrompt: {reqInput},
	ChatPrompt:            {reqInput, reqNow},
}

func validateRequired(name string, data Data) error {
	reqs, ok := requiredByPrompt[name]
	if !ok {
		return fmt.Errorf("unknown prompt %q", name)
	}
	for _, req := range reqs {
		switch req {
		case reqInput:
			if data.Input == "" {
				return fmt.Errorf("prompt %q requires Input", name)
			}
		case reqNow:
			if data.Now == "" {
				return fmt.Errorf("prompt %q requires Now", name)
			}
		default:
			return fmt.Errorf("prompt %q has unsupported requirement", name)
		}
	}
	return nil
}
