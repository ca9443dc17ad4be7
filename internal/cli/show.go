package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/pontos/internal/report"
	"github.com/calvinalkan/pontos/internal/settings"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	year := flags.Int("year", 0, "Show `year` instead of the active year")

	return &Command{
		Flags: flags,
		Usage: "show [--year Y]",
		Short: "Show the productivity grid",
		Long: `Display one row per catalog task with its count in every visible month,
its total effort, unit value and points, followed by the month totals.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execShow(io, a, *year)
		},
	}
}

func execShow(io *IO, a *app, year int) error {
	tr, err := a.open(false, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	var src report.Source = tr
	if year != 0 {
		if year < 1900 || year > 9999 {
			return fmt.Errorf("invalid --year %d", year)
		}

		src = yearView{Source: tr, year: year}
	}

	table := report.Build(src, a.now())

	io.Println(table.Title)
	io.Println(table.PeriodLine)
	io.Println()

	return report.WriteGrid(io.Out(), table)
}

// yearView shows another year than the persisted active one.
type yearView struct {
	report.Source
	year int
}

func (v yearView) Settings() settings.Settings {
	s := v.Source.Settings()
	s.ActiveYear = v.year

	return s
}
