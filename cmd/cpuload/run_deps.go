package main

import (
	"io"
	"net"
	"os"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"cpuload/internal/buildinfo"
	"cpuload/pkg/client"
	metricshttp "cpuload/pkg/http/metrics"
)

type runDeps struct {
	newLogger          func(level string) (*zap.Logger, error)
	loadConfig         func(path string) (runtimeConfig, error)
	currentBuildInfo   func() buildinfo.Info
	newMetricsExporter func() *metricshttp.Exporter
	listen             func(network, address string) (net.Listener, error)
	dial               func(addr string, logger *zap.Logger, opts ...grpc.DialOption) (*client.Client, error)
	stdout             io.Writer
}

func defaultRunDeps() runDeps {
	return runDeps{
		newLogger:          newLogger,
		loadConfig:         loadConfig,
		currentBuildInfo:   buildinfo.Current,
		newMetricsExporter: metricshttp.NewExporter,
		listen:             net.Listen,
		dial:               client.Dial,
		stdout:             os.Stdout,
	}
}
