package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/pontos/internal/period"
	"github.com/calvinalkan/pontos/internal/tracker"

	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"
)

// SettingsCmd returns the settings command.
func SettingsCmd(a *app) *Command {
	flags := flag.NewFlagSet("settings", flag.ContinueOnError)
	flags.String("goal", "", "Daily points `goal`")
	flags.Int("days", 0, "Days worked")
	flags.String("server", "", "Server `name`")
	flags.String("filter-start", "", "Filter start `mon/yyyy`")
	flags.String("filter-end", "", "Filter end `mon/yyyy`")
	flags.String("filter", "", "Enable the period filter (`on|off`)")
	flags.Int("year", 0, "Active `year`")

	return &Command{
		Flags: flags,
		Usage: "settings [flags]",
		Short: "Show or change settings",
		Long:  "Apply the given changes, then print the effective settings.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execSettings(io, a, flags)
		},
	}
}

func execSettings(io *IO, a *app, flags *flag.FlagSet) error {
	tr, err := a.open(true, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	if err := applySettings(tr, flags); err != nil {
		return err
	}

	s := tr.Settings()

	filter := "off"
	if s.IsFilterActive {
		filter = "on"
	}

	server := s.ServerName
	if server == "" {
		server = "(não identificado)"
	}

	io.Println("servidor=" + server)
	io.Println("meta_diaria=" + s.DailyEffortGoal.String())
	io.Printf("dias_trabalhados=%d\n", s.DaysWorked)
	io.Println("meta_pontos=" + tr.TargetPoints().StringFixed(1))
	io.Printf("ano=%d\n", s.ActiveYear)
	io.Printf("filtro=%s (%s até %s)\n", filter, s.FilterStart, s.FilterEnd)

	return nil
}

func applySettings(tr *tracker.Tracker, flags *flag.FlagSet) error {
	if flags.Changed("server") {
		v, _ := flags.GetString("server")
		if err := tr.SetServerName(v); err != nil {
			return err
		}
	}

	if flags.Changed("goal") {
		v, _ := flags.GetString("goal")

		goal, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%w: --goal %q", tracker.ErrInvalidValue, v)
		}

		if err := tr.SetDailyGoal(goal); err != nil {
			return err
		}
	}

	if flags.Changed("days") {
		v, _ := flags.GetInt("days")
		if err := tr.SetDaysWorked(v); err != nil {
			return err
		}
	}

	if flags.Changed("year") {
		v, _ := flags.GetInt("year")
		if err := tr.SetActiveYear(v); err != nil {
			return err
		}
	}

	if flags.Changed("filter-start") || flags.Changed("filter-end") {
		s := tr.Settings()
		start, end := s.FilterStart, s.FilterEnd

		if v, _ := flags.GetString("filter-start"); flags.Changed("filter-start") {
			p, err := period.Parse(v)
			if err != nil {
				return err
			}

			start = p
		}

		if v, _ := flags.GetString("filter-end"); flags.Changed("filter-end") {
			p, err := period.Parse(v)
			if err != nil {
				return err
			}

			end = p
		}

		if err := tr.SetFilter(start, end); err != nil {
			return err
		}
	}

	if flags.Changed("filter") {
		v, _ := flags.GetString("filter")

		var active bool

		switch v {
		case "on":
			active = true
		case "off":
		default:
			return fmt.Errorf("%w: --filter %q (use on or off)", tracker.ErrInvalidValue, v)
		}

		if err := tr.SetFilterActive(active); err != nil {
			return err
		}
	}

	return nil
}
