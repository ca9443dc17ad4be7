package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteGrid renders t as an aligned text grid with a month-total footer.
func WriteGrid(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	line := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}

	line(append([]string{"#", "ID", "Atividade"}, t.Headers()[2:]...))

	for _, row := range t.Rows {
		cells := []string{strconv.Itoa(row.Index), strconv.Itoa(row.TaskID), row.Name}
		for _, n := range row.Monthly {
			cells = append(cells, strconv.Itoa(n))
		}

		line(append(cells, strconv.Itoa(row.Effort), row.UnitValue.StringFixed(1), row.Points.StringFixed(1)))
	}

	footer := []string{"", "", "Total"}
	for _, n := range t.MonthTotals {
		footer = append(footer, strconv.Itoa(n))
	}

	line(append(footer, strconv.Itoa(t.Summary.Effort), "", t.Summary.Points.StringFixed(1)))

	return tw.Flush()
}

// WriteSummary renders the report header and totals.
func WriteSummary(w io.Writer, t Table) error {
	_, err := fmt.Fprintf(w,
		"%s\n%s\nEsforço Total: %d\nPontuação Alcançada: %s\nMeta de Pontos: %s\nPercentual Alcançado: %s%%\n",
		t.Title,
		t.PeriodLine,
		t.Summary.Effort,
		t.Summary.Points.StringFixed(1),
		t.Summary.Target.StringFixed(1),
		t.Summary.Percentage.StringFixed(2),
	)

	return err
}
