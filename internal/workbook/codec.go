package workbook

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx document.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Decode parses xlsx bytes into a Workbook. Cells are read raw (no number
// formatting applied) so values written by Encode come back unchanged.
// Trailing empty cells and trailing empty rows are not materialized.
func Decode(b []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, apperr.Format("open spreadsheet: %v", err)
	}
	defer f.Close()

	w := New()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperr.Format("read sheet %q: %v", name, err)
		}
		w.SetSheet(name, Grid(rows))
	}
	return w, nil
}

// Encode serializes the workbook to xlsx bytes, sheets in workbook order.
// A cell whose text is a canonical decimal number is stored as a number;
// every other cell is stored as a string.
func Encode(w *Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range w.SheetNames() {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}

		g, _ := w.Sheet(name)
		for r, row := range g {
			if len(row) == 0 {
				continue
			}
			start, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", name, r, err)
			}
			values := make([]any, len(row))
			for c, v := range row {
				values[c] = cellValue(v)
			}
			if err := f.SetSheetRow(name, start, &values); err != nil {
				return nil, fmt.Errorf("write sheet %q row %d: %w", name, r, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(s string) any {
	if s == "" {
		return nil
	}
	if n, ok := canonicalNumber(s); ok {
		return n
	}
	return s
}

// canonicalNumber reports whether s is exactly the shortest decimal
// rendering of a float64, so storing it as a number loses nothing
// ("007", "1e3" and "1.50" stay strings).
func canonicalNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, strconv.FormatFloat(n, 'f', -1, 64) == s
}
