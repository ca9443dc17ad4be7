package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 14.0
	pdfRowHeight = 5.0
	indexWidth   = 8.0
	nameWidth    = 60.0
	effortWidth  = 16.0
	unitWidth    = 14.0
	pointsWidth  = 16.0
)

// WritePDF renders t as a landscape A4 document.
func WritePDF(w io.Writer, t Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(pdfMargin, 20, tr(t.Title))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pdfMargin, 28, tr(t.PeriodLine))
	pdf.Text(pdfMargin, 34, tr("Gerado em: "+t.GeneratedAt.Format(generatedLayout)))

	pageW, pageH := pdf.GetPageSize()
	monthWidth := 0.0

	if n := len(t.Months); n > 0 {
		monthWidth = (pageW - 2*pdfMargin - indexWidth - nameWidth - effortWidth - unitWidth - pointsWidth) / float64(n)
	}

	widths := []float64{indexWidth, nameWidth}
	for range t.Months {
		widths = append(widths, monthWidth)
	}

	widths = append(widths, effortWidth, unitWidth, pointsWidth)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(20, 20, 20)
		pdf.SetTextColor(255, 255, 255)

		for i, h := range t.Headers() {
			pdf.CellFormat(widths[i], pdfRowHeight+1, tr(h), "1", 0, "C", true, 0, "")
		}

		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetY(40)
	header()

	for _, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}

		cells := []string{strconv.Itoa(row.Index), row.Name}
		for _, n := range row.Monthly {
			cells = append(cells, strconv.Itoa(n))
		}

		cells = append(cells, strconv.Itoa(row.Effort), row.UnitValue.StringFixed(1), row.Points.StringFixed(1))

		for i, c := range cells {
			align := "C"
			if i == 1 {
				align = "L"
			}

			pdf.CellFormat(widths[i], pdfRowHeight, tr(c), "1", 0, align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	const summaryHeight = 30.0

	if pdf.GetY()+summaryHeight > pageH-pdfMargin {
		pdf.AddPage()
	}

	y := pdf.GetY() + 10

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pdfMargin, y, tr("Resumo do Período:"))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pdfMargin, y+7, tr(fmt.Sprintf("Esforço Total: %d", t.Summary.Effort)))
	pdf.Text(pdfMargin, y+12, tr("Pontuação Alcançada: "+t.Summary.Points.StringFixed(1)))
	pdf.Text(pdfMargin, y+17, tr("Meta de Pontos: "+t.Summary.Target.StringFixed(1)))
	pdf.Text(pdfMargin, y+22, tr("Percentual Alcançado: "+t.Summary.Percentage.StringFixed(2)+"%"))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}
