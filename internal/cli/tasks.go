package cli

import (
	"context"

	"github.com/calvinalkan/pontos/internal/catalog"

	flag "github.com/spf13/pflag"
)

// TasksCmd returns the tasks command.
func TasksCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("tasks", flag.ContinueOnError),
		Usage: "tasks",
		Short: "List the task catalog",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			for _, task := range catalog.Tasks() {
				io.Printf("%4d  %-60s %s\n", task.ID, task.Name, task.UnitValue.StringFixed(1))
			}

			return nil
		},
	}
}
