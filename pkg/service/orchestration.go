package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"cpuload/pkg/hostcpu"
	"cpuload/pkg/load"
	"cpuload/pkg/loadpb"
	"cpuload/pkg/progress"
)

const (
	resultCompleted    = "completed"
	resultDisconnected = "disconnected"
	resultLaunchFailed = "launch_failed"
	resultCancelled    = "cancelled"
)

// orchestration drives one SetLoad call from Received to Closed.
type orchestration struct {
	svc    *Service
	spec   load.Spec
	logger *zap.Logger
	state  State
}

func (s *Service) newOrchestration(ctx context.Context, req *loadpb.Load) *orchestration {
	spec := load.Normalize(load.Request{CPUs: req.Cpus, Seconds: req.TimeSeconds})

	fields := []zap.Field{zap.Uint64("request", s.nextID.Add(1))}
	if remote, ok := peer.FromContext(ctx); ok && remote.Addr != nil {
		fields = append(fields, zap.String("peer", remote.Addr.String()))
	}

	run := &orchestration{
		svc:    s,
		spec:   spec,
		logger: s.logger.With(fields...),
		state:  StateReceived,
	}

	s.stats.enter(StateReceived)
	s.recorder.TransitionState("", StateReceived.String())

	run.logger.Info(
		"request received",
		zap.Stringer("load", req),
		zap.Object("spec", spec),
		zap.String("mode", string(s.cfg.Mode)),
	)

	return run
}

func (o *orchestration) transition(to State) {
	from := o.state
	o.state = to

	o.svc.stats.move(from, to)

	toLabel := ""
	if to != StateClosed {
		toLabel = to.String()
	}

	o.svc.recorder.TransitionState(from.String(), toLabel)
	o.logger.Debug("state changed", zap.Stringer("from", from), zap.Stringer("to", to))
}

func (o *orchestration) finish(result string, launchErr error) {
	o.transition(StateClosed)
	o.svc.stats.finish(result, launchErr)
	o.svc.recorder.ObserveRequest(result)
}

func (o *orchestration) execute(ctx context.Context, stream loadpb.LoadService_SetLoadServer) error {
	o.svc.recorder.ObserveRequestedDuration(o.spec.Duration.Seconds())
	o.transition(StateLaunching)

	burner, err := o.launch(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		o.logger.Info("caller left while workers were starting", zap.Error(err))
		o.finish(resultCancelled, nil)

		return status.FromContextError(err).Err()
	}

	if err != nil {
		o.logger.Error("failed to launch burn workers", zap.Error(err))
		o.finish(resultLaunchFailed, err)

		return status.Errorf(codes.ResourceExhausted, "launch %d burn workers: %v", o.spec.CPUs, err)
	}

	start := burner.StartedAt()
	gate := burner.Done()

	if o.svc.cfg.Mode == ModeReplay {
		o.transition(StateBurning)

		waitErr := burner.Wait(ctx)
		if waitErr != nil {
			o.logger.Info("caller left while burning", zap.Error(waitErr))
			o.finish(resultCancelled, nil)

			return status.FromContextError(ctx.Err()).Err()
		}

		start = o.svc.now()
		gate = nil
	}

	o.transition(StateReporting)
	o.logger.Debug(
		"reporting progress",
		zap.Duration("interval", o.svc.emitter.Interval()),
		zap.Int("updates", o.svc.emitter.Count(o.spec.Seconds())),
	)

	result := o.report(ctx, stream, start, gate)
	o.finish(result, nil)

	return nil
}

// launch builds and starts the burn, then tracks it until every worker joins.
// The burn is detached from ctx: a caller leaving does not stop it.
//
//nolint:ireturn // Burner is the seam used by tests
func (o *orchestration) launch(ctx context.Context) (Burner, error) {
	burner, err := o.svc.newBurner(o.spec)
	if err != nil {
		return nil, err
	}

	err = burner.Start(ctx)
	if err != nil {
		return nil, err
	}

	workers := burner.Workers()
	o.svc.stats.addWorkers(workers)
	o.svc.recorder.AddWorkers(workers)

	var watch *hostcpu.Watch
	if o.svc.cfg.HostCPU {
		watch = hostcpu.Start(
			context.WithoutCancel(ctx),
			o.svc.hostSource,
			o.svc.cfg.HostCPUInterval,
			hostcpu.WithObserver(o.svc.recorder.ObserveHostCPU),
		)
	}

	o.logger.Info("burn started", zap.Int("workers", workers), zap.Duration("duration", o.spec.Duration))

	go func() {
		<-burner.Done()

		o.svc.stats.addWorkers(-workers)
		o.svc.recorder.AddWorkers(-workers)

		fields := []zap.Field{zap.Int("workers", workers)}
		if watch != nil {
			fields = append(fields, zap.Object("hostCPU", watch.Stop()))
		}

		o.logger.Info("burn finished", fields...)
	}()

	return burner, nil
}

// report forwards progress until the sequence ends or the caller goes away.
func (o *orchestration) report(
	ctx context.Context,
	stream loadpb.LoadService_SetLoadServer,
	start time.Time,
	gate <-chan struct{},
) string {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var last progress.Update

	for update := range o.svc.emitter.Stream(ctx, o.spec.Seconds(), start, gate) {
		err := stream.Send(&loadpb.Progress{SpentSeconds: update.Elapsed, TotalSeconds: update.Total})
		if err != nil {
			o.logger.Info("caller stopped receiving progress", zap.Object("last", last), zap.Error(err))

			return resultDisconnected
		}

		last = update
		o.svc.recorder.ObserveProgress()
		o.logger.Debug("progress sent", zap.Object("update", update))
	}

	if !last.Final() || last.Total == 0 {
		o.logger.Info("caller left before progress completed", zap.Object("last", last))

		return resultDisconnected
	}

	o.logger.Info("request completed", zap.Object("last", last))

	return resultCompleted
}
