package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"go.uber.org/zap"

	"cpuload/pkg/client"
	"cpuload/pkg/load"
)

var errValueOutOfRange = errors.New("value out of range")

type clientOptions struct {
	addr     string
	logLevel string
	cpus     int
	seconds  int
	bar      bool
}

func parseClientArgs(args []string) (clientOptions, error) {
	var opts clientOptions

	flagSet := flag.NewFlagSet("cpuload client", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(
		&opts.addr,
		"addr",
		envString(envServerAddr, client.DefaultAddress),
		"Address of the load server",
	)
	flagSet.StringVar(
		&opts.logLevel,
		"log-level",
		defaultLogLevel,
		"Structured log level (debug, info, warn, error)",
	)
	flagSet.IntVar(&opts.cpus, "cpus", load.DefaultCPUs, "Number of cores to load")
	flagSet.IntVar(&opts.seconds, "time", load.DefaultSeconds, "Burn duration in seconds")
	flagSet.BoolVar(&opts.bar, "bar", false, "Render progress as a terminal bar")

	err := flagSet.Parse(args)
	if err != nil {
		return clientOptions{}, fmt.Errorf("parse CLI arguments: %w", err)
	}

	if opts.cpus > math.MaxInt32 {
		return clientOptions{}, fmt.Errorf("%w: --cpus %d", errValueOutOfRange, opts.cpus)
	}

	if opts.seconds > math.MaxInt32 {
		return clientOptions{}, fmt.Errorf("%w: --time %d", errValueOutOfRange, opts.seconds)
	}

	opts.addr = strings.TrimSpace(opts.addr)
	if opts.addr == "" {
		opts.addr = client.DefaultAddress
	}

	opts.logLevel = strings.TrimSpace(opts.logLevel)
	if opts.logLevel == "" {
		opts.logLevel = defaultLogLevel
	}

	return opts, nil
}

func (o clientOptions) request() load.Request {
	return load.ClientDefaults(nonNegativeInt32(o.cpus), nonNegativeInt32(o.seconds))
}

// nonNegativeInt32 maps values below one to zero so ClientDefaults applies.
// The upper bound is checked by parseClientArgs.
func nonNegativeInt32(value int) int32 {
	if value <= 0 {
		return 0
	}

	return int32(value) //nolint:gosec // bounded by parseClientArgs
}

func runClient(ctx context.Context, args []string, deps runDeps, stderr io.Writer) int {
	opts, err := parseClientArgs(args)
	if err != nil {
		return writeError(stderr, err, exitCodeParseError)
	}

	logger, err := deps.newLogger(opts.logLevel)
	if err != nil {
		return writeError(
			stderr,
			fmt.Errorf("failed to configure logger: %w", err),
			exitCodeRuntimeError,
		)
	}

	defer func() {
		_ = logger.Sync()
	}()

	conn, err := deps.dial(opts.addr, logger)
	if err != nil {
		return writeError(stderr, err, exitCodeRuntimeError)
	}

	defer func() {
		_ = conn.Close()
	}()

	var printer client.Printer = client.NewLinePrinter(deps.stdout)
	if opts.bar {
		printer = client.NewBarPrinter(deps.stdout)
	}

	req := opts.request()
	logger.Debug(
		"requesting load",
		zap.String("addr", opts.addr),
		zap.Object("load", load.Normalize(req)),
	)

	last, err := conn.SetLoad(ctx, req, printer)
	if err != nil {
		return writeError(stderr, err, exitCodeRuntimeError)
	}

	logger.Debug("load finished", zap.Object("progress", last))

	return exitCodeSuccess
}
