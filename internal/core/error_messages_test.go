package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "format error",
			err:      apperr.Format("sheet %q: missing column %q", "Proveedores", "nombre"),
			wantCode: "DOC001",
		},
		{
			name:     "transport error",
			err:      apperr.IO(errors.New("dial tcp: connection refused"), "document GET"),
			wantCode: "IO001",
		},
		{
			name:     "missing document is not found",
			err:      transport.ErrNoDocument,
			wantCode: "NF001",
		},
		{
			name:     "unknown supplier",
			err:      apperr.NotFound("supplier", "prov_x"),
			wantCode: "NF001",
		},
		{
			name:     "validation error",
			err:      apperr.Invalid("name", "required"),
			wantCode: "VAL001",
		},
		{
			name:     "busy limiter",
			err:      fmt.Errorf("proxy put: %w", ErrTooManyUploads),
			wantCode: "UPL002",
		},
		{
			name:     "body too large",
			err:      errors.New("http: request body too large"),
			wantCode: "UPL001",
		},
		{
			name:     "cancelled",
			err:      context.Canceled,
			wantCode: "UPL004",
		},
		{
			name:     "kind wins over pattern",
			err:      apperr.IO(context.DeadlineExceeded, "document PUT"),
			wantCode: "IO001",
		},
		{
			name:     "case insensitive pattern",
			err:      errors.New("Client.Timeout exceeded while awaiting headers (TIMEOUT)"),
			wantCode: "UPL005",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(apperr.NotFound("supplier", "prov_1"))

	expected := "The requested record does not exist (Code: NF001). Refresh the list and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known kind is user facing", apperr.Format("bad"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
