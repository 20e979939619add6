package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	metricshttp "cpuload/pkg/http/metrics"
	"cpuload/pkg/http/status"
	"cpuload/pkg/service"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type serverOptions struct {
	configPath string
	logLevel   string
	addr       string
}

func parseServerArgs(args []string) (serverOptions, error) {
	var opts serverOptions

	flagSet := flag.NewFlagSet("cpuload server", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(
		&opts.configPath,
		"config",
		defaultConfigPath,
		"Path to the server configuration file",
	)
	flagSet.StringVar(
		&opts.logLevel,
		"log-level",
		defaultLogLevel,
		"Structured log level (debug, info, warn, error)",
	)
	flagSet.StringVar(&opts.addr, "addr", "", "gRPC listen address (overrides server.addr)")

	err := flagSet.Parse(args)
	if err != nil {
		return serverOptions{}, fmt.Errorf("parse CLI arguments: %w", err)
	}

	opts.logLevel = strings.TrimSpace(opts.logLevel)
	if opts.logLevel == "" {
		opts.logLevel = defaultLogLevel
	}

	opts.configPath = strings.TrimSpace(opts.configPath)
	if opts.configPath == "" {
		opts.configPath = defaultConfigPath
	}

	opts.addr = strings.TrimSpace(opts.addr)

	return opts, nil
}

func runServer(ctx context.Context, args []string, deps runDeps, stderr io.Writer) int {
	opts, err := parseServerArgs(args)
	if err != nil {
		return writeError(stderr, err, exitCodeParseError)
	}

	cfg, err := deps.loadConfig(opts.configPath)
	if err != nil {
		return writeError(
			stderr,
			fmt.Errorf("failed to load configuration: %w", err),
			exitCodeRuntimeError,
		)
	}

	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
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

	info := deps.currentBuildInfo()
	logger.Info(
		"starting cpuload server",
		zap.String("version", info.Version),
		zap.String("commit", info.GitCommit),
		zap.String("buildDate", info.BuildDate),
		zap.String("configPath", opts.configPath),
		zap.String("progressMode", cfg.Progress.Mode),
		zap.Duration("progressInterval", cfg.Progress.Interval),
		zap.Int("maxWorkers", cfg.Burn.MaxWorkers),
		zap.Bool("idlePriority", cfg.Burn.IdlePriority),
	)

	exporter := deps.newMetricsExporter()
	registerRuntimeCollectors(exporter)

	svc, err := service.New(
		cfg.serviceConfig(),
		service.WithLogger(logger),
		service.WithRecorder(exporter),
	)
	if err != nil {
		logger.Error("failed to build load service", zap.Error(err))

		return exitCodeRuntimeError
	}

	err = serve(ctx, cfg, deps, logger, svc, exporter)
	if err != nil {
		logger.Error("server terminated", zap.Error(err))

		return exitCodeRuntimeError
	}

	logger.Info("server stopped")

	return exitCodeSuccess
}

func serve(
	ctx context.Context,
	cfg runtimeConfig,
	deps runDeps,
	logger *zap.Logger,
	svc *service.Service,
	exporter *metricshttp.Exporter,
) error {
	grpcListener, err := deps.listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	grpcServer := grpc.NewServer()
	svc.Register(grpcServer)

	var httpServer *http.Server

	var httpListener net.Listener

	if cfg.HTTP.Bind != "" {
		httpListener, err = deps.listen("tcp", cfg.HTTP.Bind)
		if err != nil {
			_ = grpcListener.Close()

			return fmt.Errorf("listen on %s: %w", cfg.HTTP.Bind, err)
		}

		httpServer = &http.Server{
			Handler:           newHTTPHandler(svc, exporter),
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("serving load service", zap.String("addr", grpcListener.Addr().String()))

		serveErr := grpcServer.Serve(grpcListener)
		if serveErr != nil {
			return fmt.Errorf("serve grpc: %w", serveErr)
		}

		return nil
	})

	if httpServer != nil {
		group.Go(func() error {
			logger.Info("serving metrics and status", zap.String("addr", httpListener.Addr().String()))

			serveErr := httpServer.Serve(httpListener)
			if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return fmt.Errorf("serve http: %w", serveErr)
			}

			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()

		logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()

		stopGRPC(shutdownCtx, grpcServer, logger)

		if httpServer != nil {
			shutdownErr := httpServer.Shutdown(shutdownCtx)
			if shutdownErr != nil {
				logger.Warn("http shutdown incomplete", zap.Error(shutdownErr))
			}
		}

		return nil
	})

	err = group.Wait()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// stopGRPC drains in-flight streams until ctx expires, then closes them.
// A stream still burning keeps its workers running after Stop.
func stopGRPC(ctx context.Context, server *grpc.Server, logger *zap.Logger) {
	stopped := make(chan struct{})

	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		logger.Warn("graceful stop timed out, closing active streams")
		server.Stop()
		<-stopped
	}
}

// registerRuntimeCollectors adds Go runtime and process metrics next to the
// service metrics.
func registerRuntimeCollectors(exporter *metricshttp.Exporter) {
	exporter.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func newHTTPHandler(svc *service.Service, exporter *metricshttp.Exporter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter)
	mux.Handle("/healthz", status.NewHandler(svc))

	return mux
}
