// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error classification for fiber commands.
//
// Commands return errors; Run prints them once, as a single red line with
// an optional remediation hint underneath, and maps them to an exit code.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/tools"
	"github.com/jeranaias/fiber/internal/ui"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a failed command
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "compare", "notes")
	Action  string // Action being performed (e.g., "export", "list")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	return msg
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrInvalidValue creates an error for a value outside the accepted set.
func ErrInvalidValue(field, value, expected string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  "unsupported value",
		Example: expected,
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Problem is an error as shown to the user.
type Problem struct {
	Message string
	Hint    string
}

// Classify turns err into a one-line message and, where the fix is known,
// a remediation hint. model names the configured model.
func Classify(err error, model string) Problem {
	var (
		validation *ValidationError
		clientErr  *ollama.ClientError
	)
	switch {
	case errors.As(err, &validation):
		p := Problem{Message: validation.Error()}
		if validation.Example != "" {
			p.Hint = "Usage: " + validation.Example
		}
		return p
	case ollama.IsModelNotFound(err):
		return Problem{
			Message: fmt.Sprintf("Model '%s' not found", model),
			Hint:    "Install it with: ollama pull " + model,
		}
	case ollama.IsServiceUnavailable(err), errors.Is(err, assistant.ErrNotRunning):
		return Problem{
			Message: "Ollama is not running",
			Hint:    "Start it with: ollama serve",
		}
	case ollama.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return Problem{
			Message: "The model took too long to respond",
			Hint:    "Try again, or raise ollama.timeout_secs in config.toml",
		}
	case errors.Is(err, tools.ErrMissingAPIKey):
		return Problem{
			Message: err.Error(),
			Hint:    "Set OPENWEATHERMAP_API_KEY; get a key at: " + tools.WeatherSignupURL,
		}
	case errors.Is(err, tools.ErrInvalidAPIKey):
		return Problem{
			Message: err.Error(),
			Hint:    "Check the value of OPENWEATHERMAP_API_KEY",
		}
	case errors.Is(err, search.ErrNoResults):
		return Problem{Message: "No results found"}
	case errors.As(err, &clientErr) && (clientErr.Type == ollama.ErrTypeBackend || clientErr.Type == ollama.ErrTypeBadStatus):
		return Problem{Message: "Ollama server error: " + clientErr.Message}
	case errors.Is(err, context.Canceled):
		return Problem{Message: "Cancelled"}
	}
	return Problem{Message: err.Error()}
}

// GetExitCode determines the exit code for an error returned by a command.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return ExitUsageError
	}
	return ExitGeneralError
}

// DisplayError writes err through p as "Error: ..." plus its hint.
func DisplayError(p *ui.Printer, err error, model string) {
	if err == nil {
		return
	}
	prob := Classify(err, model)
	p.Error("Error: " + prob.Message)
	if prob.Hint != "" {
		p.Dim("  " + prob.Hint)
	}
}
