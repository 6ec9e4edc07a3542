package workbook

import (
	"errors"
	"testing"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

func TestSniff(t *testing.T) {
	zip := append([]byte("PK\x03\x04"), make([]byte, 32)...)
	html := []byte("<!DOCTYPE html><html><body>Function error</body></html>")

	tests := []struct {
		name        string
		body        []byte
		contentType string
		wantErr     bool
	}{
		{"xlsx with xlsx type", zip, ContentType, false},
		{"xlsx without type", zip, "", false},
		{"xlsx as octet-stream", zip, "application/octet-stream", false},
		{"xlsx as zip", zip, "application/zip", false},
		{"xlsx with bad header value", zip, ";;;", false},
		{"zip labelled html", zip, "text/html; charset=utf-8", true},
		{"zip labelled json", zip, "application/json", true},
		{"html error page", html, "text/html", true},
		{"html mislabelled as xlsx", html, ContentType, true},
		{"empty", nil, ContentType, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Sniff(tt.body, tt.contentType)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrFormat) {
					t.Errorf("Sniff() error = %v, want ErrFormat", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Sniff() error = %v, want nil", err)
			}
		})
	}
}
