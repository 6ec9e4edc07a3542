package apperr

import (
	"errors"
	"io"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"format", Format("sheet %s", "Proveedores"), ErrFormat},
		{"io with cause", IO(io.ErrUnexpectedEOF, "GET %s", "/api/excel"), ErrIO},
		{"io without cause", IO(nil, "PUT returned %d", 500), ErrIO},
		{"not found", NotFound("supplier", "prov_1"), ErrNotFound},
		{"validation", Invalid("name", "required"), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
			}
		})
	}
}

func TestIOKeepsCause(t *testing.T) {
	err := IO(io.ErrUnexpectedEOF, "read body")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "required"},
		{Field: "phone", Message: "invalid"},
	}}
	want := "validation failed: name: required (and 1 more)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
