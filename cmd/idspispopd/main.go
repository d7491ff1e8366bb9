package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/eightytwo/idspispopd/internal/config"
	ierrors "github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/gitinfo"
	"github.com/eightytwo/idspispopd/internal/logfields"
	"github.com/eightytwo/idspispopd/internal/serve"
	"github.com/eightytwo/idspispopd/internal/site"
	"github.com/eightytwo/idspispopd/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"idspispopd.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `short:"V" help:"Print version and exit"`

	Build struct {
		Output string `short:"o" help:"Override the output directory"`
	} `cmd:"" help:"Build the site once and exit"`

	Serve struct {
		Addr string `help:"Override the listen address"`
	} `cmd:"" help:"Build the site, serve it and rebuild on change"`

	Check struct{} `cmd:"" help:"Validate configuration, templates and content without building"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Write a starter configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Vars{"version": version.String()})

	// Pre-config logging so configuration errors are reported consistently.
	setupLogging(config.LoggingConfig{}, CLI.Verbose)

	var err error
	switch kctx.Command() {
	case "build":
		err = withConfig(runBuild)
	case "serve":
		err = withConfig(runServe)
	case "check":
		err = withConfig(runCheck)
	case "init":
		err = runInit()
	}

	ierrors.NewCLIErrorAdapter(CLI.Verbose, nil).HandleError(err)
}

// withConfig loads the configuration, applies its logging settings and
// runs the command. The default config path falls back to built-in
// defaults when no file exists; an explicit path must exist.
func withConfig(run func(*config.Config) error) error {
	cfg, err := config.LoadOrDefault(CLI.Config)
	if err != nil {
		return ierrors.Wrap(err, ierrors.CategoryConfig, ierrors.SeverityFatal, "load configuration")
	}
	setupLogging(cfg.Logging, CLI.Verbose)
	return run(cfg)
}

func setupLogging(logCfg config.LoggingConfig, verbose bool) {
	level := slog.LevelInfo
	switch config.NormalizeLogLevel(logCfg.Level) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(logCfg.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runBuild(cfg *config.Config) error {
	if CLI.Build.Output != "" {
		cfg.Paths.Output = CLI.Build.Output
	}

	gen := site.NewGenerator(cfg)
	attachLastModified(gen, cfg)

	report, err := gen.Build(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}

func runServe(cfg *config.Config) error {
	if CLI.Serve.Addr != "" {
		cfg.Serve.Addr = CLI.Serve.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve.Run(ctx, cfg)
}

func runCheck(cfg *config.Config) error {
	problems := site.Check(context.Background(), cfg)
	if len(problems) == 0 {
		fmt.Println("ok: configuration, templates and content are valid")
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "%v\n", p)
	}
	return ierrors.New(ierrors.CategoryContent, ierrors.SeverityError,
		fmt.Sprintf("%d problems found", len(problems)))
}

func runInit() error {
	if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryConfig, ierrors.SeverityFatal, "write configuration")
	}
	fmt.Printf("wrote %s\n", CLI.Config)
	return nil
}

// attachLastModified wires git commit times into listing items when the
// content tree is inside a repository.
func attachLastModified(gen *site.Generator, cfg *config.Config) {
	if !cfg.GitInfo.Enabled {
		return
	}
	lookup, err := gitinfo.Open(cfg.Paths.Content)
	if err != nil {
		if stderrors.Is(err, gitinfo.ErrNoRepository) {
			slog.Warn("git info enabled but the content tree is not in a repository",
				logfields.Path(cfg.Paths.Content))
		} else {
			slog.Warn("git metadata unavailable", logfields.Error(err))
		}
		return
	}
	gen.SetLastModified(lookup.LastModified)
}
