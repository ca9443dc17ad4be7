// Package config resolves pontos configuration from defaults, config files,
// command-line overrides and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
)

var (
	ErrFileNotFound  = errors.New("config file not found")
	ErrFileRead      = errors.New("cannot read config file")
	ErrInvalid       = errors.New("invalid config")
	ErrDataDirEmpty  = errors.New("data_dir cannot be empty")
	ErrEnvFileRead   = errors.New("cannot read env file")
	ErrInvalidLevel  = errors.New("invalid log_level")
	ErrInvalidConfig = errors.New("config validation failed")
)

// FileName is the project config file looked up in the working directory.
const FileName = ".pontos.json"

// Environment variables that override file configuration.
const (
	EnvDataDir = "PONTOS_DATA_DIR"
	EnvModel   = "PONTOS_MODEL"
)

// Config holds all configuration options.
type Config struct {
	DataDir   string `json:"data_dir"              validate:"required"`
	Model     string `json:"model,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" validate:"required"`
	LogLevel  string `json:"log_level,omitempty"   validate:"omitempty,oneof=debug info warn error"`
	EnvFile   string `json:"env_file,omitempty"`

	// Absolute working directory (from -C or os.Getwd).
	EffectiveCwd string `json:"-"`
	// Absolute data directory.
	DataDirAbs string `json:"-"`
	// Env is the process environment with the env file merged underneath.
	Env map[string]string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks where configuration values came from.
type Sources struct {
	Global  string
	Project string
	EnvFile string
	// Env lists the environment variables that overrode file values.
	Env []string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:   ".pontos",
		APIKeyEnv: "GEMINI_API_KEY",
		LogLevel:  "warn",
		EnvFile:   ".env",
	}
}

// APIKey returns the extraction API key, empty when unset.
func (c Config) APIKey() string {
	return c.Env[c.APIKeyEnv]
}

// Input holds the inputs for [Load].
type Input struct {
	WorkDir    string // -C/--cwd; os.Getwd when empty
	ConfigPath string // -c/--config
	DataDir    string // --data-dir; empty means no override
	LogLevel   string // --log-level; empty means no override
	Env        map[string]string
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/pontos/config.json or ~/.config/pontos/config.json)
// 3. Project config (.pontos.json) or the explicit file from -c
// 4. CLI overrides
// 5. PONTOS_* environment variables.
func Load(in Input) (Config, error) {
	workDir := in.WorkDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := Default()

	if path := globalPath(in.Env); path != "" {
		fileCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, fileCfg)
			cfg.Sources.Global = path
		}
	}

	projectFile, mustExist := filepath.Join(workDir, FileName), false
	if in.ConfigPath != "" {
		projectFile, mustExist = resolve(workDir, in.ConfigPath), true
	}

	fileCfg, loaded, err := loadFile(projectFile, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fileCfg)
		cfg.Sources.Project = projectFile
	}

	if in.DataDir != "" {
		cfg.DataDir = in.DataDir
	}

	if in.LogLevel != "" {
		cfg.LogLevel = in.LogLevel
	}

	env, envFile, err := loadEnv(workDir, cfg.EnvFile, in.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Env = env
	cfg.Sources.EnvFile = envFile

	if v := env[EnvDataDir]; v != "" {
		cfg.DataDir = v
		cfg.Sources.Env = append(cfg.Sources.Env, EnvDataDir)
	}

	if v := env[EnvModel]; v != "" {
		cfg.Model = v
		cfg.Sources.Env = append(cfg.Sources.Env, EnvModel)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = resolve(workDir, cfg.DataDir)

	return cfg, nil
}

// globalPath returns the global config path, or "" if neither
// XDG_CONFIG_HOME nor HOME is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "pontos", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "pontos", "config.json")
	}

	return ""
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadFile reads a config file. Missing optional files report loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !mustExist {
			return Config{}, false, nil
		}

		if os.IsNotExist(err) {
			return Config{}, false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if v, ok := raw["data_dir"].(string); ok && v == "" {
		return Config{}, ErrDataDirEmpty
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Model != "" {
		base.Model = overlay.Model
	}

	if overlay.APIKeyEnv != "" {
		base.APIKeyEnv = overlay.APIKeyEnv
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.EnvFile != "" {
		base.EnvFile = overlay.EnvFile
	}

	return base
}

// loadEnv merges the env file under the process environment. A missing env
// file is not an error.
func loadEnv(workDir, envFile string, processEnv map[string]string) (map[string]string, string, error) {
	env := make(map[string]string, len(processEnv))

	if envFile == "" {
		maps.Copy(env, processEnv)

		return env, "", nil
	}

	path := resolve(workDir, envFile)

	fromFile, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w %s: %w", ErrEnvFileRead, path, err)
		}

		path = ""
	}

	maps.Copy(env, fromFile)
	maps.Copy(env, processEnv)

	return env, path, nil
}

var structValidator = validator.New()

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "LogLevel" {
				return fmt.Errorf("%w: %q", ErrInvalidLevel, cfg.LogLevel)
			}
		}
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
