// Package load normalizes raw burn requests into a safe internal form.
package load

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	// DefaultCPUs is used when a request does not carry a CPU count.
	DefaultCPUs = 1
	// DefaultSeconds is used when a request does not carry a duration.
	DefaultSeconds = 5

	minCPUs    = 1
	minSeconds = 1
)

// Request is a burn request as received, with field presence preserved.
type Request struct {
	CPUs    *int32
	Seconds *int32
}

// Spec is a normalized burn request. CPUs and Duration are always at least one.
type Spec struct {
	CPUs     int
	Duration time.Duration
}

// Normalize clamps a raw request into a Spec. It never fails: absent fields
// take their defaults and any supplied value below one is raised to one.
func Normalize(req Request) Spec {
	cpus := int32(DefaultCPUs)
	if req.CPUs != nil {
		cpus = max(*req.CPUs, minCPUs)
	}

	seconds := int32(DefaultSeconds)
	if req.Seconds != nil {
		seconds = max(*req.Seconds, minSeconds)
	}

	return Spec{
		CPUs:     int(cpus),
		Duration: time.Duration(seconds) * time.Second,
	}
}

// ClientDefaults applies the caller-side policy before a request is sent:
// non-positive CPU counts become one and non-positive durations fall back to
// DefaultSeconds. Both fields are always populated.
func ClientDefaults(cpus, seconds int32) Request {
	if cpus <= 0 {
		cpus = DefaultCPUs
	}

	if seconds <= 0 {
		seconds = DefaultSeconds
	}

	return Request{CPUs: &cpus, Seconds: &seconds}
}

// Seconds reports the burn duration in whole seconds.
func (s Spec) Seconds() int32 {
	return int32(s.Duration / time.Second)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Spec) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("cpus", s.CPUs)
	enc.AddInt32("seconds", s.Seconds())

	return nil
}
