package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ResetCmd returns the reset command.
func ResetCmd(a *app) *Command {
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := flags.BoolP("yes", "y", false, "Skip the confirmation prompt")

	return &Command{
		Flags: flags,
		Usage: "reset [--yes]",
		Short: "Erase all counts",
		Long: `Erase every count, the server name and the filter flag. Asks for
confirmation on stdin unless --yes is given.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execReset(o, a, *yes)
		},
	}
}

func execReset(o *IO, a *app, yes bool) error {
	if !yes {
		o.Printf("Confirmar limpeza? [s/N] ")

		answer, err := o.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "s", "sim":
		default:
			o.Println("Cancelado.")

			return nil
		}
	}

	tr, err := a.open(true, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	if err := tr.Reset(); err != nil {
		return err
	}

	o.Println("Dados apagados.")

	return nil
}
