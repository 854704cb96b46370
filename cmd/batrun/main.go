package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"batrun"
	"batrun/exitcodes"
	"batrun/flags"
	"batrun/reporter"
	"batrun/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "batrun"
	app.Usage = "Bash test suite runner"
	app.Description = "batrun discovers bash test suites and runs them against one or more targets"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if batrun.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Test failures and unspecified errors both exit 1.
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "batrun failed: %v\n", err)
		os.Exit(exitcodes.RuntimeErr)
	}
}

func run(ctx *cli.Context) error {
	log, err := newLogger(ctx.Bool(flags.Debug.Name))
	if err != nil {
		return batrun.NewRuntimeError(fmt.Errorf("failed to create logger: %w", err))
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := batrun.NewConfig(ctx, log)
	if err != nil {
		return batrun.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName("batrun"),
		otelconfig.WithServiceVersion(Version),
	)
	if err != nil {
		return batrun.NewRuntimeError(fmt.Errorf("failed to setup open telemetry: %w", err))
	}
	defer otelShutdown()

	if cfg.MetricsEnabled {
		svc := service.New(log)
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	runner, err := batrun.New(cfg, Version)
	if err != nil {
		return err
	}

	switch {
	case cfg.ListTests:
		runner.ListTests(reporter.NewConsole(false))
		return nil
	case cfg.ListTargets:
		return runner.ListTargets(reporter.NewConsole(false))
	default:
		return runner.Run(ctx.Context)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
