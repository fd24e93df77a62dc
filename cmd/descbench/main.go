// Package main implements the descbench command, which validates experiment
// documents, shows their legacy projections, re-emits them and records their
// configuration in the run store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/descbench/internal/config"
	"github.com/phrazzld/descbench/internal/platform/logger"
	"github.com/phrazzld/descbench/internal/redact"
)

const usage = `usage: descbench <command> -config <file> [flags]

commands:
  validate   parse and validate an experiment document
  legacy     print the legacy projection of one descriptor as JSON (-index N)
  emit       re-emit the document as YAML (-out FILE, default stdout)
  record     store one run record per descriptor when database.enabled is set
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(initializeAndRun(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// initializeAndRun loads the runtime configuration, sets up logging and
// dispatches to the requested command. It returns the process exit code.
func initializeAndRun(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "descbench: failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "descbench: failed to set up logger: %v\n", err)
		return 1
	}
	ctx = logger.WithLogger(ctx, log)

	return run(ctx, cfg, args, stdout, stderr)
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	app := newApp(ctx, cfg, stdout, stderr)

	var cmdErr error
	switch args[0] {
	case "validate":
		cmdErr = app.validate(ctx, args[1:])
	case "legacy":
		cmdErr = app.legacy(ctx, args[1:])
	case "emit":
		cmdErr = app.emit(ctx, args[1:])
	case "record":
		cmdErr = app.record(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "descbench: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(cmdErr, flag.ErrHelp) {
		return 0
	}
	if cmdErr != nil {
		logger.FromContextOrDefault(ctx, slog.Default()).ErrorContext(ctx, "command failed",
			slog.String("command", args[0]),
			slog.String("error", redact.Error(cmdErr)))
		fmt.Fprintf(stderr, "descbench %s: %s\n", args[0], redact.Error(cmdErr))
		return 1
	}
	return 0
}
