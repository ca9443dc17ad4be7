package cli

import (
	"context"
	"errors"
	"path/filepath"
	"slices"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/importer"

	flag "github.com/spf13/pflag"
)

// ImportCmd returns the import command.
func ImportCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file>",
		Args:  1,
		Short: "Import counts from a document",
		Long: `Extract the productivity counts of one month from a document (PDF, image,
CSV or text) and merge them into that month. Counts for tasks listed in the
document replace the stored ones; other tasks keep their values.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execImport(ctx, io, a, args[0])
		},
	}
}

func execImport(ctx context.Context, io *IO, a *app, path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	file, err := importer.Open(a.fs, path)
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	tr, err := a.openForImport(svc)
	if err != nil {
		return err
	}
	defer tr.Close()

	outcome := tr.MergeImport(ctx, file)
	for _, w := range outcome.Warnings {
		io.Warn(w, "")
	}

	if !outcome.OK {
		return errors.New(tr.ImportError())
	}

	rec := outcome.Result.Record

	io.Printf("Importado: %s\n", rec.Period)

	if rec.ServerName != "" {
		io.Printf("Servidor: %s\n", tr.Settings().ServerName)
	}

	ids := make([]int, 0, len(rec.Entries))
	for id := range rec.Entries {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	for _, id := range ids {
		name := "(fora do catálogo)"
		if task, ok := catalog.Lookup(id); ok {
			name = task.Name
		}

		io.Printf("  #%-4d %-50s %d\n", id, name, rec.Entries[id])
	}

	return nil
}
