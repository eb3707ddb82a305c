package idset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// FromCSV reads ids from column of a CSV document with a header row.
// Rows with an empty or non-numeric id are skipped.
func FromCSV(r io.Reader, column string) ([]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && len(rows) > 0 {
				continue
			}
			return nil, fmt.Errorf("idset: read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return fromRows(rows, column)
}

// FromXLSX reads ids from column of sheet in an Excel workbook. An empty sheet
// name selects the first worksheet.
func FromXLSX(path, sheet, column string) ([]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("idset: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, errors.New("idset: workbook has no worksheets")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("idset: read sheet %q: %w", sheet, err)
	}
	return fromRows(rows, column)
}
