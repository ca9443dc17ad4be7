// Package report builds the productivity report table and renders it as
// text, PDF or XLSX.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/period"
	"github.com/calvinalkan/pontos/internal/settings"
	"github.com/calvinalkan/pontos/internal/store"

	"github.com/shopspring/decimal"
)

// Source is the tracker state a report is built from.
type Source interface {
	Settings() settings.Settings
	Count(p period.Period, taskID int) int
	MonthTotal(p period.Period) int
	Totals() map[int]int
	VisibleMonths(year int) []period.Month
	TargetPoints() decimal.Decimal
	Percentage() decimal.Decimal
}

// Table is a fully computed report.
type Table struct {
	Title       string
	PeriodLine  string
	GeneratedAt time.Time
	ServerName  string
	Year        int
	Months      []period.Month
	Rows        []Row
	// MonthTotals holds the column sums of Months, same order.
	MonthTotals []int
	Summary     Summary
}

// Row is one catalog task.
type Row struct {
	Index     int
	TaskID    int
	Name      string
	Monthly   []int
	Effort    int
	UnitValue decimal.Decimal
	Points    decimal.Decimal
}

// Summary holds the report totals.
type Summary struct {
	Effort     int
	Points     decimal.Decimal
	Target     decimal.Decimal
	Percentage decimal.Decimal
}

// Build computes the report for the active year.
func Build(src Source, now time.Time) Table {
	s := src.Settings()
	year := s.ActiveYear
	months := src.VisibleMonths(year)
	totals := src.Totals()

	name := s.ServerName
	if name == "" {
		name = "Servidor não identificado"
	}

	periodLine := fmt.Sprintf("Relatório Geral - Ano %d", year)
	if s.IsFilterActive {
		periodLine = fmt.Sprintf("Período: %s até %s", s.FilterStart, s.FilterEnd)
	}

	table := Table{
		Title:       "Relatório de Produtividade - " + name,
		PeriodLine:  periodLine,
		GeneratedAt: now,
		ServerName:  s.ServerName,
		Year:        year,
		Months:      months,
	}

	for i, task := range catalog.Tasks() {
		row := Row{
			Index:     i + 1,
			TaskID:    task.ID,
			Name:      task.Name,
			Monthly:   make([]int, len(months)),
			Effort:    totals[task.ID],
			UnitValue: task.UnitValue,
			Points:    store.Points(task, totals[task.ID]),
		}

		for j, m := range months {
			row.Monthly[j] = src.Count(period.New(year, m), task.ID)
		}

		table.Rows = append(table.Rows, row)
	}

	table.MonthTotals = make([]int, len(months))
	for j, m := range months {
		table.MonthTotals[j] = src.MonthTotal(period.New(year, m))
	}

	table.Summary = Summary{
		Effort:     store.TotalEffort(totals),
		Points:     store.TotalPoints(totals),
		Target:     src.TargetPoints(),
		Percentage: src.Percentage(),
	}

	return table
}

// Headers returns the column headers.
func (t Table) Headers() []string {
	headers := []string{"#", "Atividade"}
	for _, m := range t.Months {
		headers = append(headers, m.Upper())
	}

	return append(headers, "Esforço", "Vr Unit", "Pontos")
}

// Extension names a report file format.
type Extension string

const (
	PDF  Extension = "pdf"
	XLSX Extension = "xlsx"
)

// FileName is the default file name for a report of server.
func FileName(server string, ext Extension) string {
	if server == "" {
		server = "Servidor"
	}

	safe := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}

		return r
	}, server)

	return fmt.Sprintf("Relatorio_Produtividade_%s.%s", safe, ext)
}

const generatedLayout = "02/01/2006 15:04:05"
