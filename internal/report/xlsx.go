package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the report.
const SheetName = "Produtividade"

// SummaryLabel marks the totals row.
const SummaryLabel = "TOTAIS GERAIS"

// WriteXLSX renders t as a single-sheet workbook: a header row, one row per
// task and a totals row.
func WriteXLSX(w io.Writer, t Table) (err error) {
	f := excelize.NewFile()

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"#", "Atividade"}
	for _, m := range t.Months {
		headers = append(headers, m.Upper())
	}

	headers = append(headers, "Esforço Realizado", "Vr Unit Esforço", "Alcance Pontos")

	rows := make([][]any, 0, len(t.Rows)+2)

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	rows = append(rows, header)

	for _, row := range t.Rows {
		cells := []any{row.Index, row.Name}
		for _, n := range row.Monthly {
			cells = append(cells, n)
		}

		cells = append(cells, row.Effort, row.UnitValue.InexactFloat64(), row.Points.InexactFloat64())
		rows = append(rows, cells)
	}

	summary := make([]any, len(headers))
	summary[1] = SummaryLabel
	summary[len(headers)-3] = t.Summary.Effort
	summary[len(headers)-1] = t.Summary.Points.InexactFloat64()
	rows = append(rows, summary)

	for r, cells := range rows {
		for c, v := range cells {
			if v == nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}

			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	return nil
}
