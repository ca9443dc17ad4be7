package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/pontos/internal/fs"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// HistoryFileName is the shell history file inside the data directory.
const HistoryFileName = ".pontos_history"

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Start an interactive session",
		Long: `Read commands line by line and run them as if given to pontos.
Type 'help' for the command list and 'exit' to leave.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, a)
		},
	}
}

// lineReader is the prompt source of the shell.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// pipeReader reads commands from non-terminal stdin without echoing prompts.
type pipeReader struct{ o *IO }

func (p pipeReader) Prompt(string) (string, error) { return p.o.ReadLine() }
func (pipeReader) AppendHistory(string)            {}
func (pipeReader) Close() error                    { return nil }

func execShell(ctx context.Context, o *IO, a *app) error {
	var lines lineReader = pipeReader{o: o}

	historyPath := filepath.Join(a.cfg.DataDirAbs, HistoryFileName)

	if a.interactive {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(func(line string) []string {
			var out []string

			for _, c := range a.commands() {
				if strings.HasPrefix(c.Name(), line) {
					out = append(out, c.Name())
				}
			}

			return out
		})

		if err := loadHistory(a.fs, historyPath, state); err != nil {
			a.log.Warn("loading shell history", "path", historyPath, "err", err)
		}

		defer func() {
			if err := saveHistory(a.fs, historyPath, state); err != nil {
				a.log.Warn("saving shell history", "path", historyPath, "err", err)
			}
		}()

		lines = state

		o.Println("pontos - digite 'help' para ver os comandos, 'exit' para sair.")
	}

	defer lines.Close()

	for ctx.Err() == nil {
		line, err := lines.Prompt("pontos> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines.AppendHistory(line)

		args, err := shlex.Split(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		if len(args) == 0 {
			continue
		}

		switch name := args[0]; name {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printUsage(o.Out(), a.commands())
		case "shell":
			o.ErrPrintln("error: already in a shell")
		default:
			cmd := lookup(a.commands(), name)
			if cmd == nil {
				o.ErrPrintln("error: unknown command:", name)

				continue
			}

			cmd.Run(ctx, o, args[1:])
		}
	}

	return nil
}

// history is the part of [liner.State] that persists entered lines.
type history interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory reads the history file into h. A missing file is not an error.
func loadHistory(fsys fs.FS, path string, h history) error {
	ok, err := fsys.Exists(path)
	if err != nil || !ok {
		return err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = h.ReadHistory(bytes.NewReader(data))

	return err
}

// saveHistory replaces the history file with the lines held by h.
func saveHistory(fsys fs.FS, path string, h history) error {
	var buf bytes.Buffer

	if _, err := h.WriteHistory(&buf); err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return fsys.WriteFileAtomic(path, buf.Bytes(), 0o600)
}
