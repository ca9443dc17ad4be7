package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/period"

	flag "github.com/spf13/pflag"
)

// SetCmd returns the set command.
func SetCmd(a *app) *Command {
	flags := flag.NewFlagSet("set", flag.ContinueOnError)
	year := flags.Int("year", 0, "`year` of the month (default: active year)")

	return &Command{
		Flags: flags,
		Usage: "set <month> <task-id> <value>",
		Args:  3,
		Short: "Set the count of a task in a month",
		Long: `Set the count of one task in one month. The month is a code (fev), a
Portuguese name (fevereiro) or a full period (fev/2026). Values that are not
whole numbers become 0 and negative values are clamped to 0.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execSet(io, a, *year, args)
		},
	}
}

func execSet(io *IO, a *app, year int, args []string) error {
	taskID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[1])
	}

	tr, err := a.open(true, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	if year == 0 {
		year = tr.Settings().ActiveYear
	}

	p, err := parseMonthArg(args[0], year)
	if err != nil {
		return err
	}

	n, err := tr.SetCount(p, taskID, args[2])
	if err != nil {
		return err
	}

	task, _ := catalog.Lookup(taskID)
	io.Printf("%s #%d %s = %d\n", p, taskID, task.Name, n)

	return nil
}

// parseMonthArg reads a month code or name in year, or a full period.
func parseMonthArg(raw string, year int) (period.Period, error) {
	if strings.ContainsAny(raw, "/-") {
		return period.Parse(raw)
	}

	m, ok := period.NormalizeMonthToken(raw)
	if !ok {
		return period.Period{}, fmt.Errorf("%w: %q", period.ErrInvalidMonth, raw)
	}

	return period.New(year, m), nil
}
