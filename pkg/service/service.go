// Package service implements the SetLoad RPC: it normalises each request,
// burns the requested cores, and streams progress back to the caller.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"cpuload/pkg/burn"
	"cpuload/pkg/hostcpu"
	"cpuload/pkg/load"
	"cpuload/pkg/loadpb"
	"cpuload/pkg/progress"
)

var errInvalidMode = errors.New("service: unsupported progress mode")

// Burner is one request's set of burn workers.
type Burner interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context) error
	Done() <-chan struct{}
	StartedAt() time.Time
	Workers() int
}

// BurnerFactory builds the Burner for a normalised request.
type BurnerFactory func(spec load.Spec) (Burner, error)

// Recorder receives lifecycle metrics. *metrics.Exporter satisfies it.
type Recorder interface {
	ObserveRequest(result string)
	ObserveRequestedDuration(seconds float64)
	TransitionState(from, to string)
	AddWorkers(delta int)
	ObserveProgress()
	ObserveHostCPU(utilisation float64)
}

// Config controls how requests are served.
type Config struct {
	Mode             Mode
	ProgressInterval time.Duration
	MaxWorkers       int
	IdlePriority     bool
	HostCPU          bool
	HostCPUInterval  time.Duration
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeConcurrent,
		ProgressInterval: progress.DefaultInterval,
		MaxWorkers:       burn.DefaultMaxWorkers(),
		IdlePriority:     false,
		HostCPU:          false,
		HostCPUInterval:  hostcpu.DefaultInterval,
	}
}

// Service serves LoadService. It holds no per-request state; every call gets
// its own orchestration.
type Service struct {
	loadpb.UnimplementedLoadServiceServer

	cfg        Config
	logger     *zap.Logger
	recorder   Recorder
	emitter    *progress.Emitter
	newBurner  BurnerFactory
	hostSource hostcpu.Source
	now        func() time.Time

	stats  *statsRegistry
	nextID atomic.Uint64
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the structured logger. A nil logger discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder installs a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithEmitter replaces the progress emitter built from the config.
func WithEmitter(emitter *progress.Emitter) Option {
	return func(s *Service) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithBurnerFactory replaces the burn pool factory.
func WithBurnerFactory(factory BurnerFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.newBurner = factory
		}
	}
}

// WithHostCPUSource replaces the /proc/stat reader used when host sampling is enabled.
func WithHostCPUSource(src hostcpu.Source) Option {
	return func(s *Service) {
		s.hostSource = src
	}
}

// WithClock replaces the time source used to anchor replayed progress.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service.
func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeConcurrent
	}

	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", errInvalidMode, cfg.Mode, ModeConcurrent, ModeReplay)
	}

	svc := &Service{
		cfg:      cfg,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		emitter:  progress.NewEmitter(cfg.ProgressInterval),
		now:      time.Now,
		stats:    newStatsRegistry(),
	}
	svc.newBurner = svc.defaultBurner

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Register attaches the service to a gRPC server.
func (s *Service) Register(server grpc.ServiceRegistrar) {
	loadpb.RegisterLoadServiceServer(server, s)
}

// Stats reports the calls currently handled and the outcomes so far.
func (s *Service) Stats() Stats {
	return s.stats.snapshot()
}

// Mode reports the configured progress mode.
func (s *Service) Mode() Mode {
	return s.cfg.Mode
}

// SetLoad implements loadpb.LoadServiceServer.
func (s *Service) SetLoad(req *loadpb.Load, stream loadpb.LoadService_SetLoadServer) error {
	run := s.newOrchestration(stream.Context(), req)

	return run.execute(stream.Context(), stream)
}

//nolint:ireturn // the factory hides the pool behind Burner
func (s *Service) defaultBurner(spec load.Spec) (Burner, error) {
	pool, err := burn.NewPool(
		spec.CPUs,
		spec.Duration,
		burn.WithMaxWorkers(s.cfg.MaxWorkers),
		burn.WithIdlePriority(s.cfg.IdlePriority),
	)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string)            {}
func (nopRecorder) ObserveRequestedDuration(float64) {}
func (nopRecorder) TransitionState(string, string)   {}
func (nopRecorder) AddWorkers(int)                   {}
func (nopRecorder) ObserveProgress()                 {}
func (nopRecorder) ObserveHostCPU(float64)           {}
