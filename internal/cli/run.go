package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calvinalkan/pontos/internal/config"
	"github.com/calvinalkan/pontos/internal/extract"
	"github.com/calvinalkan/pontos/internal/fs"
	"github.com/calvinalkan/pontos/internal/logger"
	"github.com/calvinalkan/pontos/internal/tracker"

	flag "github.com/spf13/pflag"
)

// Options replaces production dependencies, mainly for tests.
type Options struct {
	// Service replaces the Gemini backend built from the API key.
	Service extract.Service
	// Now defaults to [time.Now].
	Now func() time.Time
}

// Run is the main entry point. Returns exit code.
func Run(stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	return RunWith(Options{}, stdin, out, errOut, args, env, sigCh)
}

// RunWith is [Run] with dependency overrides.
func RunWith(opts Options, stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("pontos", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	dataDir := globals.String("data-dir", "", "Override the data `dir`")
	logLevel := globals.String("log-level", "", "Log `level` (debug, info, warn, error)")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, nil)

		return 0
	}

	cfg, err := config.Load(config.Input{
		WorkDir:    *workDir,
		ConfigPath: *configPath,
		DataDir:    *dataDir,
		LogLevel:   *logLevel,
		Env:        env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Output: errOut})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a := newApp(cfg, log, opts)
	a.interactive = stdin == io.Reader(os.Stdin)
	cmds := a.commands()

	cmd := lookup(cmds, rest[0])
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", rest[0])
		printUsage(errOut, cmds)

		return 1
	}

	return cmd.Run(ctx, NewIO(stdin, out, errOut), rest[1:])
}

// app carries the resolved configuration into commands.
type app struct {
	cfg  config.Config
	log  logger.Logger
	opts Options
	fs   fs.FS
	now  func() time.Time

	// interactive is set when stdin is the process terminal.
	interactive bool
}

func newApp(cfg config.Config, log logger.Logger, opts Options) *app {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &app{cfg: cfg, log: log, opts: opts, fs: fs.NewReal(), now: now}
}

func (a *app) commands() []*Command {
	return []*Command{
		ShowCmd(a),
		SetCmd(a),
		SummaryCmd(a),
		ImportCmd(a),
		SettingsCmd(a),
		ReportCmd(a),
		ResetCmd(a),
		TasksCmd(),
		ShellCmd(a),
		PrintConfigCmd(&a.cfg),
	}
}

// open loads the tracker. Mutating commands pass lock=true to hold the
// data-directory lock until Close.
func (a *app) open(lock bool, svc extract.Service) (*tracker.Tracker, error) {
	return tracker.Open(a.trackerConfig(svc, func(c *tracker.Config) { c.Lock = lock }))
}

// openForImport loads the tracker for an import. The lock is taken only
// while the extracted record is merged, so other commands can run during
// the extraction call.
func (a *app) openForImport(svc extract.Service) (*tracker.Tracker, error) {
	return tracker.Open(a.trackerConfig(svc, func(c *tracker.Config) { c.LockOnMerge = true }))
}

func (a *app) trackerConfig(svc extract.Service, apply func(*tracker.Config)) tracker.Config {
	cfg := tracker.Config{
		FS:      a.fs,
		DataDir: a.cfg.DataDirAbs,
		Service: svc,
		Log:     a.log,
		Now:     a.now,
	}

	apply(&cfg)

	return cfg
}

// service returns the extraction backend, or nil when no API key is set.
func (a *app) service(ctx context.Context) (extract.Service, error) {
	if a.opts.Service != nil {
		return a.opts.Service, nil
	}

	g, err := extract.NewGemini(ctx, extract.GeminiConfig{
		APIKey: a.cfg.APIKey(),
		Model:  a.cfg.Model,
		Log:    a.log,
	})
	if errors.Is(err, extract.ErrMissingAPIKey) {
		a.log.Warn("no extraction API key", "env", a.cfg.APIKeyEnv)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return g, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, cmds []*Command) {
	if cmds == nil {
		cmds = (&app{}).commands()
	}

	fprintln(w, `pontos - productivity tracker

Usage: pontos [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
      --data-dir <dir>   Override the data directory
      --log-level <lvl>  Log level (debug, info, warn, error)
  -h, --help             Show help

Commands:`)

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
}
