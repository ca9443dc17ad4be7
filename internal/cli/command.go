package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one pontos subcommand.
//
// Run owns the output contract shared by every command: errors go to stderr
// prefixed with "error:", warnings collected on [IO] are flushed at the end,
// and an error or any warning makes the exit code 1. Argument errors are
// followed by the usage line.
type Command struct {
	// Flags defines command-specific flags.
	Flags *flag.FlagSet

	// Usage is shown after "pontos" in help. Its first word is the command
	// name. Examples: "show [--year Y]", "set <month> <task-id> <value>".
	Usage string

	// Short is the one-line description of the command list.
	Short string

	// Long is shown by --help. Short is used when empty.
	Long string

	// Args is the number of positional arguments Exec receives. Any other
	// count fails with a usage error before Exec runs.
	Args int

	// Exec runs the command after flags and arguments are checked.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// usageError is an argument error. Run prints the usage line after it.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the entry of the command list.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp prints the output of "pontos <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: pontos", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()

		o.Println()
		o.Println("Flags:")
		o.Printf("%s", buf.String())
	}
}

// Run parses flags, checks the argument count and executes the command.
// Returns the exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return o.Finish()
		}

		return c.fail(o, usageErrorf("%v", err))
	}

	rest := c.Flags.Args()
	if len(rest) != c.Args {
		return c.fail(o, usageErrorf("%s takes %d argument(s), got %d", c.Name(), c.Args, len(rest)))
	}

	if err := c.Exec(ctx, o, rest); err != nil {
		return c.fail(o, err)
	}

	return o.Finish()
}

func (c *Command) fail(o *IO, err error) int {
	o.ErrPrintln("error:", err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		o.ErrPrintln("usage: pontos", c.Usage)
		o.ErrPrintln("run 'pontos " + c.Name() + " --help' for details")
	}

	o.Finish()

	return 1
}

// lookup returns the command named name, or nil.
func lookup(cmds []*Command, name string) *Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
