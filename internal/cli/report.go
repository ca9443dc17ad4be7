package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/calvinalkan/pontos/internal/report"

	flag "github.com/spf13/pflag"
)

const (
	reportPerms    = 0o644
	reportDirPerms = 0o750
)

// ReportCmd returns the report command.
func ReportCmd(a *app) *Command {
	flags := flag.NewFlagSet("report", flag.ContinueOnError)
	format := flags.String("format", string(report.PDF), "Report `format` (pdf or xlsx)")
	output := flags.StringP("output", "o", "", "Output `path` (default: Relatorio_Produtividade_<servidor>.<format>)")

	return &Command{
		Flags: flags,
		Usage: "report [--format pdf|xlsx] [-o path]",
		Short: "Write a PDF or XLSX report",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execReport(io, a, report.Extension(*format), *output)
		},
	}
}

func execReport(io *IO, a *app, ext report.Extension, output string) error {
	render := report.WritePDF

	switch ext {
	case report.PDF:
	case report.XLSX:
		render = report.WriteXLSX
	default:
		return fmt.Errorf("unknown report format %q (use pdf or xlsx)", ext)
	}

	tr, err := a.open(false, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	table := report.Build(tr, a.now())

	if output == "" {
		output = report.FileName(table.ServerName, ext)
	}

	if !filepath.IsAbs(output) {
		output = filepath.Join(a.cfg.EffectiveCwd, output)
	}

	var buf bytes.Buffer

	if err := render(&buf, table); err != nil {
		return err
	}

	if err := a.fs.MkdirAll(filepath.Dir(output), reportDirPerms); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if err := a.fs.WriteFileAtomic(output, buf.Bytes(), reportPerms); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	io.Println("Relatório salvo em " + output)

	return nil
}
