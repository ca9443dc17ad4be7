package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/pontos/internal/config"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func Test_Load_Returns_Defaults_When_No_Files_Exist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := config.Load(config.Input{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, ".pontos"), cfg.DataDirAbs)
	require.Equal(t, "GEMINI_API_KEY", cfg.APIKeyEnv)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Empty(t, cfg.Model)
	require.Equal(t, config.Sources{}, cfg.Sources)
}

func Test_Load_Applies_Layers_In_Precedence_Order_When_All_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(xdg, "pontos", "config.json"), `{"data_dir": "global", "model": "global-model", "log_level": "info"}`)
	writeFile(t, filepath.Join(dir, config.FileName), `{
		// project wins over global
		"data_dir": "project",
	}`)

	env := map[string]string{"XDG_CONFIG_HOME": xdg}

	cfg, err := config.Load(config.Input{WorkDir: dir, Env: env})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "project"), cfg.DataDirAbs)
	require.Equal(t, "global-model", cfg.Model)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, filepath.Join(xdg, "pontos", "config.json"), cfg.Sources.Global)
	require.Equal(t, filepath.Join(dir, config.FileName), cfg.Sources.Project)

	cfg, err = config.Load(config.Input{WorkDir: dir, Env: env, DataDir: "flag", LogLevel: "debug"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "flag"), cfg.DataDirAbs)
	require.Equal(t, "debug", cfg.LogLevel)

	env[config.EnvDataDir] = "/abs/env"
	env[config.EnvModel] = "env-model"

	cfg, err = config.Load(config.Input{WorkDir: dir, Env: env, DataDir: "flag"})
	require.NoError(t, err)
	require.Equal(t, "/abs/env", cfg.DataDirAbs)
	require.Equal(t, "env-model", cfg.Model)
	require.Equal(t, []string{config.EnvDataDir, config.EnvModel}, cfg.Sources.Env)
}

func Test_Load_Uses_Home_Config_When_XDG_Unset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "pontos", "config.json"), `{"model": "home-model"}`)

	cfg, err := config.Load(config.Input{WorkDir: dir, Env: map[string]string{"HOME": home}})
	require.NoError(t, err)
	require.Equal(t, "home-model", cfg.Model)
}

func Test_Load_Explicit_Config_Replaces_Project_File_When_Given(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, config.FileName), `{"data_dir": "project"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"data_dir": "custom"}`)

	cfg, err := config.Load(config.Input{WorkDir: dir, ConfigPath: "custom.json", Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "custom"), cfg.DataDirAbs)
	require.Equal(t, filepath.Join(dir, "custom.json"), cfg.Sources.Project)
}

func Test_Load_Merges_Env_File_Under_Process_Env_When_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".env"), "GEMINI_API_KEY=from-file\nOTHER=1\n")

	cfg, err := config.Load(config.Input{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.APIKey())
	require.Equal(t, filepath.Join(dir, ".env"), cfg.Sources.EnvFile)

	cfg, err = config.Load(config.Input{WorkDir: dir, Env: map[string]string{"GEMINI_API_KEY": "from-process"}})
	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.APIKey())
	require.Equal(t, "1", cfg.Env["OTHER"])
}

func Test_Load_Reads_Custom_API_Key_Env_When_Configured(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, config.FileName), `{"api_key_env": "MY_KEY", "env_file": "secrets.env"}`)
	writeFile(t, filepath.Join(dir, "secrets.env"), "MY_KEY=abc\n")

	cfg, err := config.Load(config.Input{WorkDir: dir, Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "abc", cfg.APIKey())
}

func Test_Load_Fails_When_Config_Is_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project string
		input   config.Input
		wantErr error
	}{
		{name: "explicit empty data_dir", project: `{"data_dir": ""}`, wantErr: config.ErrDataDirEmpty},
		{name: "broken json", project: `{"data_dir": `, wantErr: config.ErrInvalid},
		{name: "unknown log level", project: `{"log_level": "loud"}`, wantErr: config.ErrInvalidLevel},
		{name: "unknown log level flag", input: config.Input{LogLevel: "trace"}, wantErr: config.ErrInvalidLevel},
		{name: "missing explicit config", input: config.Input{ConfigPath: "nope.json"}, wantErr: config.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.project != "" {
				writeFile(t, filepath.Join(dir, config.FileName), tt.project)
			}

			in := tt.input
			in.WorkDir = dir
			in.Env = map[string]string{}

			_, err := config.Load(in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tt.wantErr)
			}
		})
	}
}
