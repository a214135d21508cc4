package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "Validation wraps ErrValidation",
			err:       ValidationFailed("title", "Title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateEmail wraps ErrDuplicateEmail",
			err:       DuplicateEmail(),
			target:    ErrDuplicateEmail,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Entry not found"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "wrapped Unauthenticated still matches",
			err:       fmt.Errorf("service: %w", Unauthenticated()),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Entry not found"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrUnauthenticated",
			err:       InvalidCredentials("Invalid email or password"),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestValidationAggregatesMessages(t *testing.T) {
	err := Validation(
		FieldError{Field: "email", Message: "Email format is invalid"},
		FieldError{Field: "password", Message: "Password must be at least 6 characters"},
	)

	want := "Email format is invalid, Password must be at least 6 characters"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if len(err.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(err.Fields))
	}
	if err.Fields[1].Field != "password" {
		t.Errorf("Fields[1].Field = %q, want %q", err.Fields[1].Field, "password")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"validation", ValidationFailed("name", "Name is required"), CodeValidation},
		{"duplicate", DuplicateEmail(), CodeDuplicateEmail},
		{"credentials", InvalidCredentials("Invalid email or password"), CodeInvalidCredentials},
		{"unauthenticated", Unauthenticated(), CodeUnauthenticated},
		{"not found", NotFound("gone"), CodeNotFoundOrForbidden},
		{"internal", Internal("boom"), CodeInternal},
		{"plain error is internal", errors.New("disk on fire"), CodeInternal},
		{"wrapped kind", fmt.Errorf("ctx: %w", DuplicateEmail()), CodeDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := Unauthenticated()
	if err.Unwrap() != ErrUnauthenticated {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), ErrUnauthenticated)
	}
}
