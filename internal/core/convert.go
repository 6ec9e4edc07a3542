package core

// convert.go turns spreadsheet cells into typed values and back.
//
// Cells are typed by hand in the spreadsheet as often as they are written by
// this package, so parsing is lenient:
//   - booleans as 1/0, true/false, si/sí/no, x
//   - decimals with "," or "." as separator, thousands separators, currency
//     symbols and accounting parentheses
//   - Excel formula prefixes (="value") and stray quotes
//
// Writing is canonical: booleans as 1/0, decimals in plain notation and
// timestamps as local "YYYY-MM-DD HH:MM".

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the format of the link table's last-updated column.
const TimestampLayout = "2006-01-02 15:04"

// numericRegex validates a number after separators have been normalized.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// currencyReplacer strips the currency markers seen in typed price cells.
var currencyReplacer = strings.NewReplacer(
	"ARS", "",
	"US$", "",
	"$", "",
	"€", "",
	"£", "",
	"\u00a0", "",
	" ", "",
)

// CleanCell removes spreadsheet artifacts from a cell value: surrounding
// whitespace, an Excel formula prefix (="...") and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// ParseBool reads a flag cell. ok is false for empty or unrecognized values.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(CleanCell(s)) {
	case "1", "true", "t", "si", "sí", "s", "yes", "y", "x", "verdadero":
		return true, true
	case "0", "false", "f", "no", "n", "falso":
		return false, true
	default:
		return false, false
	}
}

// FormatBool writes a flag cell.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseDecimal reads a quantity or price cell. ok is false for empty or
// unparseable values, which callers treat as zero.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = CleanCell(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = normalizeSeparators(currencyReplacer.Replace(s))
	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeSeparators rewrites a number to use "." as decimal separator and
// no thousands separator. With both separators present the last one is the
// decimal separator; a lone "," is decimal ("1,5"); repeated "." are
// thousands ("1.000.000").
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}

// FormatDecimal writes a quantity or price cell.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

// FormatTimestamp writes a last-updated cell. Callers pass local time.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
