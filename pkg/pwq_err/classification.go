// pkg/pwq_err/classification.go
//
// Error classification with exit codes.

package pwq_err

import (
	"fmt"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - bad flags, arguments or request input (exit 2)
	CategoryValidation
	// CategoryConfiguration - bad config file or generation spec (exit 2)
	CategoryConfiguration
	// CategoryNetwork - remote evaluation endpoint unreachable or misbehaving (exit 1)
	CategoryNetwork
	// CategoryUser - user cancelled/interrupted (exit 130)
	CategoryUser
	// CategoryInternal - bugs in pwq itself (exit 3)
	CategoryInternal
)

var categoryInfo = map[ErrorCategory]struct {
	name string
	code int
}{
	CategorySystem:        {"system", 1},
	CategoryValidation:    {"validation", 2},
	CategoryConfiguration: {"configuration", 2},
	CategoryNetwork:       {"network", 1},
	CategoryUser:          {"user", 130}, // as for SIGINT
	CategoryInternal:      {"internal", 3},
}

func (c ErrorCategory) String() string {
	if info, ok := categoryInfo[c]; ok {
		return info.name
	}
	return "unknown"
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
		fmt.Fprintf(&sb, ": %v", e.Cause)
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

// ExitCode is the process exit code for the category; unknown categories exit 1.
func (e *ClassifiedError) ExitCode() int {
	if info, ok := categoryInfo[e.Category]; ok {
		return info.code
	}
	return 1
}

// GetExitCode extracts an exit code from any error.
// 0 for nil and for expected user errors, the category code for classified errors, 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if cerr.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}
	return 1
}

// CategoryOf returns the category of err, or CategorySystem when unclassified.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if cerr.As(err, &classified) {
		return classified.Category
	}
	return CategorySystem
}

func classified(cat ErrorCategory, message string, cause error, remediation []string) error {
	return &ClassifiedError{Category: cat, Message: message, Cause: cause, Remediation: remediation}
}

// NewValidationError is for bad flags, arguments and request bodies.
func NewValidationError(message string, remediation ...string) error {
	return classified(CategoryValidation, message, nil, remediation)
}

func NewConfigurationError(message string, cause error, remediation ...string) error {
	return classified(CategoryConfiguration, message, cause, remediation)
}

// NewNetworkError is for a remote evaluation endpoint that failed.
func NewNetworkError(message string, cause error, remediation ...string) error {
	return classified(CategoryNetwork, message, cause, remediation)
}

func NewFilesystemError(message string, cause error, remediation ...string) error {
	return classified(CategorySystem, message, cause, remediation)
}

// NewInternalError is for bugs in pwq; it always asks for a debug log.
func NewInternalError(message string, cause error) error {
	return classified(CategoryInternal, message, cause, []string{
		"This is likely a bug in pwq",
		"Rerun with LOG_LEVEL=debug and include the log file when reporting it",
	})
}

func NewUserCancelledError(operation string) error {
	return classified(CategoryUser, "cancelled: "+operation, nil, nil)
}
