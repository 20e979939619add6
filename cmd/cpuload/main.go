// Package main wires the cpuload CLI entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

const (
	defaultConfigPath = "/etc/cpuload/config.yaml"
	defaultLogLevel   = "info"

	commandServer  = "server"
	commandClient  = "client"
	commandVersion = "version"

	exitCodeSuccess      = 0
	exitCodeRuntimeError = 1
	exitCodeParseError   = 2
)

var (
	errMissingCommand  = errors.New("missing command (supported: server, client, version)")
	errUnknownCommand  = errors.New("unknown command")
	errInvalidLogLevel = errors.New("invalid log level")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], defaultRunDeps(), os.Stderr)

	stop()

	if code != 0 {
		exitProcess(code)
	}
}

var exitProcess = os.Exit //nolint:gochecknoglobals // replaceable for tests

func run(ctx context.Context, args []string, deps runDeps, stderr io.Writer) int {
	if len(args) == 0 {
		return writeError(stderr, errMissingCommand, exitCodeParseError)
	}

	switch args[0] {
	case commandServer:
		return runServer(ctx, args[1:], deps, stderr)
	case commandClient:
		return runClient(ctx, args[1:], deps, stderr)
	case commandVersion:
		return runVersion(deps, stderr)
	default:
		return writeError(
			stderr,
			fmt.Errorf("%w: %q", errUnknownCommand, args[0]),
			exitCodeParseError,
		)
	}
}

func runVersion(deps runDeps, stderr io.Writer) int {
	_, err := fmt.Fprintln(deps.stdout, deps.currentBuildInfo().String())
	if err != nil {
		return writeError(stderr, fmt.Errorf("write version: %w", err), exitCodeRuntimeError)
	}

	return exitCodeSuccess
}

func writeError(dst io.Writer, err error, code int) int {
	if err == nil {
		return code
	}

	_, ferr := fmt.Fprintf(dst, "%v\n", err)
	if ferr != nil {
		return code
	}

	return code
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}

	cfg := zap.NewProductionConfig()

	err := cfg.Level.UnmarshalText([]byte(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return logger, nil
}
