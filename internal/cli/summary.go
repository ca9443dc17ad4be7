package cli

import (
	"context"

	"github.com/calvinalkan/pontos/internal/report"

	flag "github.com/spf13/pflag"
)

// SummaryCmd returns the summary command.
func SummaryCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("summary", flag.ContinueOnError),
		Usage: "summary",
		Short: "Show effort, points and goal progress",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			tr, err := a.open(false, nil)
			if err != nil {
				return err
			}
			defer tr.Close()

			if err := report.WriteSummary(io.Out(), report.Build(tr, a.now())); err != nil {
				return err
			}

			if msg := tr.Standing().Message(); msg != "" {
				io.Println(msg)
			}

			return nil
		},
	}
}
