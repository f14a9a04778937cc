// pkg/scribe_err/classification.go
//
// Error classification with exit codes.

package scribe_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - Input validation failures (exit 2)
	CategoryValidation
	// CategoryNetwork - Network/provider issues (exit 1)
	CategoryNetwork
	// CategoryGit - Git-specific errors (exit 1)
	CategoryGit
	// CategoryConfig - Unreadable or invalid configuration (exit 2)
	CategoryConfig
	// CategoryInternal - Bugs in scribe itself (exit 3)
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySystem:
		return "system"
	case CategoryValidation:
		return "validation"
	case CategoryNetwork:
		return "network"
	case CategoryGit:
		return "git"
	case CategoryConfig:
		return "config"
	case CategoryInternal:
		return "internal"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		fmt.Fprintf(&sb, "\n\nCause: %v", e.Cause)
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, step)
		}
	}

	return sb.String()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryValidation, CategoryConfig:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error.
// Returns 0 for nil and for expected user errors, the category code for
// classified errors and 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

// GetCategory returns the category of a classified error, or CategorySystem.
func GetCategory(err error) ErrorCategory {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategorySystem
}

// NewValidationError creates an error for input validation failures
func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewGitError creates an error for git-specific issues
func NewGitError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryGit,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewNetworkError creates an error for provider or connectivity failures
func NewNetworkError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryNetwork,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewConfigError creates an error for configuration that cannot be used
func NewConfigError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryConfig,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewFilesystemError creates an error for filesystem issues
func NewFilesystemError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategorySystem,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewInternalError creates an error for bugs
func NewInternalError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Remediation: []string{
			"This is a bug in scribe, please report it",
			"Rerun with --debug and include the log output",
		},
	}
}
