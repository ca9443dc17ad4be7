package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/pontos/internal/config"
	"github.com/calvinalkan/pontos/internal/extract"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) error {
	model := cfg.Model
	if model == "" {
		model = extract.DefaultModel
	}

	key := "unset"
	if cfg.APIKey() != "" {
		key = "set"
	}

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("data_dir=" + cfg.DataDirAbs)
	io.Println("model=" + model)
	io.Println("api_key_env=" + cfg.APIKeyEnv + " (" + key + ")")
	io.Println("log_level=" + cfg.LogLevel)

	io.Println("")
	io.Println("# sources")

	src := cfg.Sources
	if src.Global == "" && src.Project == "" && src.EnvFile == "" && len(src.Env) == 0 {
		io.Println("(defaults only)")

		return nil
	}

	if src.Global != "" {
		io.Println("global_config=" + src.Global)
	}

	if src.Project != "" {
		io.Println("project_config=" + src.Project)
	}

	if src.EnvFile != "" {
		io.Println("env_file=" + src.EnvFile)
	}

	if len(src.Env) > 0 {
		io.Println("env=" + strings.Join(src.Env, ","))
	}

	return nil
}
