package plan

import (
	"fmt"
	"os"
	"path/filepath"
)

// bundledSchema is the embedded plan schema JSON.
const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Planweek Plan",
  "type": "object",
  "additionalProperties": false,
  "required": ["schema_version", "tasks"],
  "properties": {
    "schema_version": { "type": "integer", "const": 1 },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "name", "date"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "name": { "type": "string", "minLength": 1 },
          "description": { "type": "string" },
          "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
          "start": { "type": "string", "pattern": "^([01]\\d|2[0-3]):[0-5]\\d$" },
          "end": { "type": "string", "pattern": "^([01]\\d|2[0-3]):[0-5]\\d$" },
          "recurring": { "type": "boolean" },
          "exceptions": {
            "type": "array",
            "items": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" }
          },
          "due_date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
          "priority": { "type": "boolean" },
          "color": { "type": "string" },
          "created_at": { "type": "string", "format": "date-time" },
          "updated_at": { "type": "string", "format": "date-time" }
        }
      }
    },
    "goals": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "name"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "name": { "type": "string", "minLength": 1 },
          "due_date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
          "subtasks": {
            "type": "array",
            "items": { "$ref": "#/$defs/subtask" }
          }
        }
      }
    }
  },
  "$defs": {
    "subtask": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "done": { "type": "boolean" },
        "children": {
          "type": "array",
          "items": { "$ref": "#/$defs/subtask" }
        }
      }
    }
  }
}`

// BundledSchema returns the embedded plan schema JSON content.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}

// EnsureSchema writes the bundled schema to schemaPath if no file is
// there yet.
func EnsureSchema(schemaPath string) error {
	if info, err := os.Stat(schemaPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("schema path is a directory: %s", schemaPath)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat schema file: %w", err)
	}

	schemaDir := filepath.Dir(schemaPath)
	if schemaDir != "" && schemaDir != "." {
		if err := os.MkdirAll(schemaDir, 0755); err != nil {
			return fmt.Errorf("create schema directory: %w", err)
		}
	}

	if err := os.WriteFile(schemaPath, BundledSchema(), 0644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
