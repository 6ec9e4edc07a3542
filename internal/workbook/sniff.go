package workbook

import (
	"bytes"
	"mime"
	"strings"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

// zipMagic starts every xlsx container.
var zipMagic = []byte("PK\x03\x04")

// Sniff is the cheap pre-check run on fetched bytes before a full Decode.
// It turns "the remote returned an error page" into ErrFormat instead of a
// parser failure deep inside the zip reader.
//
// The magic number is mandatory. The content type is checked permissively:
// only types that clearly describe a text document are rejected.
func Sniff(b []byte, contentType string) error {
	if len(b) == 0 {
		return apperr.Format("empty document")
	}
	if !bytes.HasPrefix(b, zipMagic) {
		return apperr.Format("not a spreadsheet container (starts with %q)", preview(b))
	}
	if contentType == "" {
		return nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable header, trust the magic number.
		return nil
	}
	if strings.HasPrefix(mt, "text/") || strings.HasSuffix(mt, "json") || strings.HasSuffix(mt, "+xml") || mt == "application/xml" {
		return apperr.Format("unexpected content type %q", mt)
	}
	return nil
}

func preview(b []byte) string {
	const n = 16
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
