// Package errors provides centralized error definitions and error handling utilities
// for persuade. It defines sentinel errors for catalog, profile and dialogue
// configuration problems, domain error types carrying context, semantic error
// types, and classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - CatalogError: errors raised while loading or generating an item catalog
//   - DialogueError: errors raised while setting up or driving a dialogue
//   - ProtocolError: a broken protocol invariant inside the dialogue engine
//
// Semantic errors represent common error conditions:
//   - NotFoundError: item, agent or transcript not found
//   - ValidationError: invalid configuration or input
//
// # Usage
//
//	err := errors.NewValidationError("top fraction must be in (0, 1]").
//		WithField("top_fraction").
//		WithValue(1.5).
//		WithCause(errors.ErrInvalidFraction)
//
//	if errors.Is(err, errors.ErrInvalidFraction) { ... }
//
// # Protocol Violations
//
// ProtocolError values are never returned to callers. The dialogue engine
// panics with them because a repeated proposal or a repeated premise means the
// engine itself is wrong, not its input.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for engine defects.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Catalog and profile sentinel errors
var (
	// ErrEmptyCatalog indicates that a catalog has no items.
	ErrEmptyCatalog = New("catalog is empty")
	// ErrDuplicateItem indicates that two items share a name.
	ErrDuplicateItem = New("duplicate item name")
	// ErrMissingRating indicates that an item has no value for some criterion.
	ErrMissingRating = New("item is missing a rating")
	// ErrMissingCriterion indicates that a profile does not order every criterion.
	ErrMissingCriterion = New("profile is missing a criterion")
	// ErrDuplicateCriterion indicates that a profile lists a criterion twice.
	ErrDuplicateCriterion = New("profile lists a criterion twice")
	// ErrUnknownCriterion indicates an unrecognized criterion name.
	ErrUnknownCriterion = New("unknown criterion")
	// ErrUnknownValue indicates an unrecognized value name.
	ErrUnknownValue = New("unknown value")
	// ErrItemNotFound indicates that an item is not in the catalog.
	ErrItemNotFound = New("item not found")
	// ErrMalformedArgument indicates argument text that cannot be parsed.
	ErrMalformedArgument = New("malformed argument")
)

// Dialogue configuration sentinel errors
var (
	// ErrInvalidFraction indicates a top fraction outside (0, 1].
	ErrInvalidFraction = New("top fraction must be in (0, 1]")
	// ErrInvalidProbability indicates an acceptance probability outside [0, 1].
	ErrInvalidProbability = New("probability must be in [0, 1]")
	// ErrInvalidMessageLimit indicates a non-positive message limit.
	ErrInvalidMessageLimit = New("message limit must be positive")
	// ErrInvalidDrawMode indicates an unknown exhaustion draw mode.
	ErrInvalidDrawMode = New("unknown draw mode")
	// ErrUnknownAgent indicates a name that matches no participant.
	ErrUnknownAgent = New("unknown agent")
	// ErrDuplicateAgent indicates two participants with the same name.
	ErrDuplicateAgent = New("duplicate agent name")
	// ErrMissingRandomSource indicates a dialogue started without a random source.
	ErrMissingRandomSource = New("random source is required")
)

// General sentinel errors
var (
	// ErrProtocolViolation indicates that the dialogue engine broke its own rules.
	ErrProtocolViolation = New("protocol violation")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PersuadeError is the base interface for all errors defined here.
type PersuadeError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

func formatWithContext(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// CatalogError represents errors raised while reading or building a catalog.
//
// Example:
//
//	err := errors.NewCatalogError("bad value", errors.ErrUnknownValue).
//		WithPath("data/values.csv").WithLine(7)
//	fmt.Println(err) // "catalog error [path=data/values.csv, line=7]: bad value: unknown value"
type CatalogError struct {
	baseError
	Path string
	Line int
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(message string, cause error) *CatalogError {
	return &CatalogError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the source file to the error context.
func (e *CatalogError) WithPath(path string) *CatalogError {
	e.Path = path
	return e
}

// WithLine adds a 1-based line number to the error context.
func (e *CatalogError) WithLine(line int) *CatalogError {
	e.Line = line
	return e
}

// Error returns the formatted error message.
func (e *CatalogError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}
	return formatWithContext("catalog error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *CatalogError) Is(target error) bool {
	if _, ok := target.(*CatalogError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DialogueError represents errors raised while setting up or driving a dialogue.
//
// Example:
//
//	err := errors.NewDialogueError("delivery failed", ioErr).
//		WithDialogueID("d-1").WithAgent("Alice")
type DialogueError struct {
	baseError
	DialogueID string
	Agent      string
}

// NewDialogueError creates a new DialogueError.
func NewDialogueError(message string, cause error) *DialogueError {
	return &DialogueError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithDialogueID adds the dialogue ID to the error context.
func (e *DialogueError) WithDialogueID(id string) *DialogueError {
	e.DialogueID = id
	return e
}

// WithAgent adds an agent name to the error context.
func (e *DialogueError) WithAgent(name string) *DialogueError {
	e.Agent = name
	return e
}

// WithSeverity sets the error severity.
func (e *DialogueError) WithSeverity(s Severity) *DialogueError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DialogueError) Error() string {
	var parts []string
	if e.DialogueID != "" {
		parts = append(parts, fmt.Sprintf("dialogue=%s", e.DialogueID))
	}
	if e.Agent != "" {
		parts = append(parts, fmt.Sprintf("agent=%s", e.Agent))
	}
	return formatWithContext("dialogue error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *DialogueError) Is(target error) bool {
	if _, ok := target.(*DialogueError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ProtocolError describes a broken dialogue invariant. It always matches
// ErrProtocolViolation.
//
// Example:
//
//	panic(errors.NewProtocolError("item proposed twice").
//		WithAgent("Alice").WithItem("Engine3"))
type ProtocolError struct {
	baseError
	Agent string
	Item  string
}

// NewProtocolError creates a new ProtocolError.
func NewProtocolError(message string) *ProtocolError {
	return &ProtocolError{
		baseError: baseError{
			message:  message,
			cause:    ErrProtocolViolation,
			severity: SeverityCritical,
		},
	}
}

// WithAgent adds the offending agent to the error context.
func (e *ProtocolError) WithAgent(name string) *ProtocolError {
	e.Agent = name
	return e
}

// WithItem adds the contested item to the error context.
func (e *ProtocolError) WithItem(name string) *ProtocolError {
	e.Item = name
	return e
}

// Error returns the formatted error message.
func (e *ProtocolError) Error() string {
	var parts []string
	if e.Agent != "" {
		parts = append(parts, fmt.Sprintf("agent=%s", e.Agent))
	}
	if e.Item != "" {
		parts = append(parts, fmt.Sprintf("item=%s", e.Item))
	}
	return formatWithContext("protocol error", parts, e.message, nil)
}

// Is checks if this error matches the target.
func (e *ProtocolError) Is(target error) bool {
	if _, ok := target.(*ProtocolError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("item", "Engine9")
//	fmt.Println(err) // "item 'Engine9' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("probability must be in [0, 1]")
//	err = err.WithField("prob_accept_item").WithValue(1.2)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var persuadeErr PersuadeError
	if As(err, &persuadeErr) {
		return persuadeErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PersuadeError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var persuadeErr PersuadeError
	if As(err, &persuadeErr) {
		return persuadeErr.Severity()
	}
	return SeverityError
}

// IsDomainError returns true if the error is a CatalogError, DialogueError or
// ProtocolError.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var catalogErr *CatalogError
	var dialogueErr *DialogueError
	var protocolErr *ProtocolError

	return As(err, &catalogErr) || As(err, &dialogueErr) || As(err, &protocolErr)
}

// IsSemanticError returns true if the error is a NotFoundError or ValidationError.
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var validation *ValidationError

	return As(err, &notFound) || As(err, &validation)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load catalog")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to read %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
