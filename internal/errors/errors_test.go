package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// CatalogError Tests
// -----------------------------------------------------------------------------

func TestCatalogError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CatalogError
		want string
	}{
		{
			name: "basic error",
			err:  NewCatalogError("bad row", nil),
			want: "catalog error: bad row",
		},
		{
			name: "with cause",
			err:  NewCatalogError("bad row", ErrUnknownValue),
			want: "catalog error: bad row: unknown value",
		},
		{
			name: "with path and line",
			err:  NewCatalogError("bad row", ErrUnknownValue).WithPath("values.csv").WithLine(7),
			want: "catalog error [path=values.csv, line=7]: bad row: unknown value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogError_Is(t *testing.T) {
	err := NewCatalogError("bad row", ErrUnknownCriterion).WithLine(3)

	if !Is(err, &CatalogError{}) {
		t.Error("Is(CatalogError{}) = false, want true")
	}
	if !Is(err, ErrUnknownCriterion) {
		t.Error("Is(ErrUnknownCriterion) = false, want true")
	}
	if Is(err, ErrUnknownValue) {
		t.Error("Is(ErrUnknownValue) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// DialogueError Tests
// -----------------------------------------------------------------------------

func TestDialogueError_Error(t *testing.T) {
	err := NewDialogueError("delivery failed", ErrCanceled).
		WithDialogueID("d-1").
		WithAgent("Alice")

	want := "dialogue error [dialogue=d-1, agent=Alice]: delivery failed: operation canceled"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}

	err = err.WithSeverity(SeverityWarning)
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() after WithSeverity = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestDialogueError_Is(t *testing.T) {
	err := NewDialogueError("setup failed", ErrUnknownAgent)

	if !Is(err, &DialogueError{}) {
		t.Error("Is(DialogueError{}) = false, want true")
	}
	if !Is(err, ErrUnknownAgent) {
		t.Error("Is(ErrUnknownAgent) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// ProtocolError Tests
// -----------------------------------------------------------------------------

func TestProtocolError(t *testing.T) {
	err := NewProtocolError("item proposed twice").WithAgent("Alice").WithItem("Engine3")

	want := "protocol error [agent=Alice, item=Engine3]: item proposed twice"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrProtocolViolation) {
		t.Error("Is(ErrProtocolViolation) = false, want true")
	}
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
	if err.IsUserFacing() {
		t.Error("IsUserFacing() = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *NotFoundError
		want string
	}{
		{
			name: "basic",
			err:  NewNotFoundError("item", "Engine9"),
			want: "item 'Engine9' not found",
		},
		{
			name: "with cause",
			err:  NewNotFoundError("item", "Engine9").WithCause(ErrItemNotFound),
			want: "item 'Engine9' not found: item not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("out of range").
		WithField("top_fraction").
		WithValue(1.5).
		WithCause(ErrInvalidFraction)

	want := "validation error [field=top_fraction, value=1.5]: out of range: top fraction must be in (0, 1]"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("out of range").WithCause(ErrInvalidProbability)

	if !Is(err, &ValidationError{}) {
		t.Error("Is(ValidationError{}) = false, want true")
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
	if !Is(err, ErrInvalidProbability) {
		t.Error("Is(ErrInvalidProbability) = false, want true")
	}
	if Is(err, ErrInvalidFraction) {
		t.Error("Is(ErrInvalidFraction) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"catalog error", NewCatalogError("x", nil), true},
		{"validation error", NewValidationError("x"), true},
		{"wrapped validation error", fmt.Errorf("ctx: %w", NewValidationError("x")), true},
		{"protocol error", NewProtocolError("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"plain error", errors.New("boom"), SeverityError},
		{"not found", NewNotFoundError("item", "x"), SeverityWarning},
		{"protocol", NewProtocolError("x"), SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(NewCatalogError("x", nil)) {
		t.Error("IsDomainError(CatalogError) = false, want true")
	}
	if !IsDomainError(Wrap(NewDialogueError("x", nil), "run")) {
		t.Error("IsDomainError(wrapped DialogueError) = false, want true")
	}
	if IsDomainError(NewValidationError("x")) {
		t.Error("IsDomainError(ValidationError) = true, want false")
	}
	if IsDomainError(nil) {
		t.Error("IsDomainError(nil) = true, want false")
	}
}

func TestIsSemanticError(t *testing.T) {
	if !IsSemanticError(NewNotFoundError("agent", "Carol")) {
		t.Error("IsSemanticError(NotFoundError) = false, want true")
	}
	if IsSemanticError(NewProtocolError("x")) {
		t.Error("IsSemanticError(ProtocolError) = true, want false")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	err := Wrap(ErrEmptyCatalog, "load")
	if err.Error() != "load: catalog is empty" {
		t.Errorf("Wrap() = %q", err.Error())
	}
	if !Is(err, ErrEmptyCatalog) {
		t.Error("wrapped error should match ErrEmptyCatalog")
	}

	err = Wrapf(ErrItemNotFound, "lookup %s", "Engine2")
	if err.Error() != "lookup Engine2: item not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
}
