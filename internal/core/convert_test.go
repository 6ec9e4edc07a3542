package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{`="00123"`, "00123"},
		{"=42", "42"},
		{`"quoted"`, "quoted"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input  string
		want   bool
		wantOK bool
	}{
		{"1", true, true},
		{"0", false, true},
		{"true", true, true},
		{"FALSE", false, true},
		{"sí", true, true},
		{"Si", true, true},
		{"no", false, true},
		{"x", true, true},
		{" 1 ", true, true},
		{"", false, false},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		got, ok := ParseBool(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseBool(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatBool(t *testing.T) {
	if got := FormatBool(true); got != "1" {
		t.Errorf("FormatBool(true) = %q, want %q", got, "1")
	}
	if got := FormatBool(false); got != "0" {
		t.Errorf("FormatBool(false) = %q, want %q", got, "0")
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"1.5", "1.5", true},
		{"1,5", "1.5", true},
		{"10", "10", true},
		{"$ 1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"1.000.000", "1000000", true},
		{"ARS 250", "250", true},
		{"(12.5)", "-12.5", true},
		{"=25", "25", true},
		{"", "0", false},
		{"abc", "0", false},
		{"1.2.3,4,5", "0", false},
	}

	for _, tt := range tests {
		got, ok := ParseDecimal(tt.input)
		if ok != tt.wantOK || got.String() != tt.want {
			t.Errorf("ParseDecimal(%q) = %s, %v, want %s, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		input decimal.Decimal
		want  string
	}{
		{decimal.RequireFromString("2.50"), "2.5"},
		{decimal.NewFromInt(12), "12"},
		{decimal.Zero, "0"},
	}

	for _, tt := range tests {
		if got := FormatDecimal(tt.input); got != tt.want {
			t.Errorf("FormatDecimal(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 59, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2024-03-09 07:05" {
		t.Errorf("FormatTimestamp() = %q, want %q", got, "2024-03-09 07:05")
	}
}
