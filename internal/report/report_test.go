package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/period"
	"github.com/calvinalkan/pontos/internal/report"
	"github.com/calvinalkan/pontos/internal/tracker"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var generated = time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC)

func seededTracker(t *testing.T) *tracker.Tracker {
	t.Helper()

	tr, err := tracker.Open(tracker.Config{
		FS:      fs.NewReal(),
		DataDir: t.TempDir(),
		Now:     func() time.Time { return generated },
	})
	require.NoError(t, err)

	return tr
}

func TestBuildSeeded(t *testing.T) {
	t.Parallel()

	table := report.Build(seededTracker(t), generated)

	if got, want := table.Title, "Relatório de Produtividade - Servidor não identificado"; got != want {
		t.Errorf("Title=%q, want=%q", got, want)
	}

	if got, want := table.PeriodLine, "Relatório Geral - Ano 2026"; got != want {
		t.Errorf("PeriodLine=%q, want=%q", got, want)
	}

	if got, want := len(table.Rows), catalog.Len(); got != want {
		t.Fatalf("rows=%d, want=%d", got, want)
	}

	if got, want := len(table.Months), 11; got != want {
		t.Fatalf("months=%d, want=%d (january 2026 hidden)", got, want)
	}

	first := table.Rows[0]
	if first.TaskID != 1 || first.Monthly[0] != 11 || first.Effort != 11 || first.Points.StringFixed(1) != "5.5" {
		t.Errorf("first row=%+v", first)
	}

	if got, want := table.MonthTotals[0], 453; got != want {
		t.Errorf("MonthTotals[fev]=%d, want=%d", got, want)
	}

	if got, want := table.Summary.Effort, 453; got != want {
		t.Errorf("Summary.Effort=%d, want=%d", got, want)
	}

	wantHeaders := []string{"#", "Atividade", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ", "Esforço", "Vr Unit", "Pontos"}
	if diff := cmp.Diff(wantHeaders, table.Headers()); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFiltered(t *testing.T) {
	t.Parallel()

	tr := seededTracker(t)
	require.NoError(t, tr.SetServerName("ana"))
	require.NoError(t, tr.SetFilter(period.New(2026, period.Mar), period.New(2026, period.Abr)))
	require.NoError(t, tr.SetFilterActive(true))

	table := report.Build(tr, generated)

	require.Equal(t, "Relatório de Produtividade - ANA", table.Title)
	require.Equal(t, "Período: MAR/2026 até ABR/2026", table.PeriodLine)
	require.Equal(t, []period.Month{period.Mar, period.Abr}, table.Months)
	require.Equal(t, 0, table.Summary.Effort)
}

func TestWritePDF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.WritePDF(&buf, report.Build(seededTracker(t), generated)))

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	table := report.Build(seededTracker(t), generated)
	require.NoError(t, report.WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, catalog.Len()+2)

	require.Equal(t, "Atividade", rows[0][1])
	require.Equal(t, "Esforço Realizado", rows[0][len(rows[0])-3])
	require.Equal(t, "Despachos", rows[1][1])

	last := rows[len(rows)-1]
	require.Equal(t, report.SummaryLabel, last[1])
	require.Equal(t, "453", last[len(table.Headers())-3])
}

func TestWriteGridAndSummary(t *testing.T) {
	t.Parallel()

	table := report.Build(seededTracker(t), generated)

	var grid bytes.Buffer
	require.NoError(t, report.WriteGrid(&grid, table))

	lines := strings.Split(strings.TrimRight(grid.String(), "\n"), "\n")
	require.Len(t, lines, catalog.Len()+2)
	require.Contains(t, lines[1], "Despachos")
	require.Contains(t, lines[len(lines)-1], "Total")

	var summary bytes.Buffer
	require.NoError(t, report.WriteSummary(&summary, table))
	require.Contains(t, summary.String(), "Esforço Total: 453")
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		server string
		ext    report.Extension
		want   string
	}{
		{server: "", ext: report.PDF, want: "Relatorio_Produtividade_Servidor.pdf"},
		{server: "J. SILVA", ext: report.XLSX, want: "Relatorio_Produtividade_J. SILVA.xlsx"},
		{server: "A/B", ext: report.PDF, want: "Relatorio_Produtividade_A_B.pdf"},
	}

	for _, tt := range tests {
		if got := report.FileName(tt.server, tt.ext); got != tt.want {
			t.Errorf("FileName(%q, %s)=%q, want=%q", tt.server, tt.ext, got, tt.want)
		}
	}
}
