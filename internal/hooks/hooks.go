// Package hooks invokes external commands on planner events.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Options configures a hook invocation.
type Options struct {
	Command    string
	DetailPath string // JSON file describing the event, passed to the hook
	Label      string // event label, e.g. "session-end" or "pomodoro-phase"
	WorkDir    string
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Subject  string
}

// Invoke runs the hook command with the event label, subject, and
// detail path as arguments. A missing command or detail file is a
// silent no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" || opts.DetailPath == "" {
		return Result{}, nil
	}

	info, err := os.Stat(opts.DetailPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("stat detail file: %w", err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("detail path is a directory: %s", opts.DetailPath)
	}

	subject, err := readSubject(opts.DetailPath)
	if err != nil {
		return Result{}, err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, opts.Command, opts.Label, subject, opts.DetailPath)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	exitCode := exitCodeFromError(err)
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCode,
		Subject:  subject,
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

// readSubject pulls the subject (or phase) field out of the detail
// JSON, tolerating either key.
func readSubject(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read detail file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("detail file is empty: %s", path)
	}

	var detail struct {
		Subject string `json:"subject"`
		Phase   string `json:"phase"`
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		return "", fmt.Errorf("parse detail file: %w", err)
	}
	if detail.Subject != "" {
		return detail.Subject, nil
	}
	return detail.Phase, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
