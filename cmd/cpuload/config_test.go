package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpuload/pkg/burn"
	"cpuload/pkg/progress"
	"cpuload/pkg/service"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("./testdata/missing.yaml")
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Server.Addr != "[::1]:50051" {
		t.Fatalf("unexpected server address: %q", cfg.Server.Addr)
	}

	if cfg.Progress.Mode != string(service.ModeConcurrent) {
		t.Fatalf("unexpected progress mode: %q", cfg.Progress.Mode)
	}

	if cfg.Progress.Interval != 5*time.Second {
		t.Fatalf("unexpected progress interval: %v", cfg.Progress.Interval)
	}

	if cfg.HTTP.Bind != ":9108" {
		t.Fatalf("unexpected http bind address: %q", cfg.HTTP.Bind)
	}

	if cfg.Burn.MaxWorkers != burn.DefaultMaxWorkers() || cfg.Burn.IdlePriority || cfg.HostCPU.Enabled {
		t.Fatalf("unexpected burn/hostcpu defaults: %+v %+v", cfg.Burn, cfg.HostCPU)
	}
}

func TestLoadConfigAppliesFileOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Server.Addr != "[::]:6000" {
		t.Fatalf("expected server address override, got %q", cfg.Server.Addr)
	}

	if cfg.Burn.MaxWorkers != 16 {
		t.Fatalf("expected max workers override, got %d", cfg.Burn.MaxWorkers)
	}

	if !cfg.Burn.IdlePriority {
		t.Fatal("expected idle priority override")
	}

	if cfg.Progress.Interval != 2*time.Second {
		t.Fatalf("expected progress interval override, got %v", cfg.Progress.Interval)
	}

	if cfg.Progress.Mode != string(service.ModeReplay) {
		t.Fatalf("expected progress mode override, got %q", cfg.Progress.Mode)
	}

	if !cfg.HostCPU.Enabled || cfg.HostCPU.Interval != 500*time.Millisecond {
		t.Fatalf("expected hostcpu overrides, got %+v", cfg.HostCPU)
	}

	if cfg.HTTP.Bind != ":9200" {
		t.Fatalf("expected http bind override, got %q", cfg.HTTP.Bind)
	}

	svcCfg := cfg.serviceConfig()
	if svcCfg.Mode != service.ModeReplay || svcCfg.MaxWorkers != 16 || !svcCfg.HostCPU {
		t.Fatalf("unexpected service config: %+v", svcCfg)
	}
}

func TestLoadConfigAppliesEnvOverrides(t *testing.T) {
	t.Setenv(envServerAddr, " 127.0.0.1:7000 ")
	t.Setenv(envMaxWorkers, "8")
	t.Setenv(envIdlePriority, "true")
	t.Setenv(envProgressInterval, "3s")
	t.Setenv(envProgressMode, " REPLAY ")
	t.Setenv(envHostCPU, "1")
	t.Setenv(envHostCPUInterval, "250ms")
	t.Setenv(envHTTPBind, " :9300 ")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Fatalf("expected env override for server address, got %q", cfg.Server.Addr)
	}

	if cfg.Burn.MaxWorkers != 8 || !cfg.Burn.IdlePriority {
		t.Fatalf("expected env override for burn, got %+v", cfg.Burn)
	}

	if cfg.Progress.Interval != 3*time.Second {
		t.Fatalf("expected env override for progress interval, got %v", cfg.Progress.Interval)
	}

	if cfg.Progress.Mode != "replay" {
		t.Fatalf("expected normalized env override for mode, got %q", cfg.Progress.Mode)
	}

	if !cfg.HostCPU.Enabled || cfg.HostCPU.Interval != 250*time.Millisecond {
		t.Fatalf("expected env override for hostcpu, got %+v", cfg.HostCPU)
	}

	if cfg.HTTP.Bind != ":9300" {
		t.Fatalf("expected env override for http bind, got %q", cfg.HTTP.Bind)
	}
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv(envMaxWorkers, "-3")
	t.Setenv(envIdlePriority, "maybe")
	t.Setenv(envProgressInterval, "soon")
	t.Setenv(envServerAddr, "   ")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Burn.MaxWorkers != burn.DefaultMaxWorkers() || cfg.Burn.IdlePriority {
		t.Fatalf("expected burn defaults, got %+v", cfg.Burn)
	}

	if cfg.Progress.Interval != 5*time.Second {
		t.Fatalf("expected default interval, got %v", cfg.Progress.Interval)
	}

	if cfg.Server.Addr != "[::1]:50051" {
		t.Fatalf("expected default address, got %q", cfg.Server.Addr)
	}
}

func TestLoadConfigEmptyHTTPBindDisablesListener(t *testing.T) {
	t.Setenv(envHTTPBind, "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.HTTP.Bind != "" {
		t.Fatalf("expected empty http bind, got %q", cfg.HTTP.Bind)
	}
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mode.yaml")

	writeErr := os.WriteFile(path, []byte("progress:\n  mode: eventually\n"), 0o600)
	if writeErr != nil {
		t.Fatalf("write temp file: %v", writeErr)
	}

	_, err := loadConfig(path)
	if !errors.Is(err, errInvalidProgressMode) {
		t.Fatalf("expected errInvalidProgressMode, got %v", err)
	}
}

func TestLoadConfigReturnsDecodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	writeErr := os.WriteFile(path, []byte("burn: ["), 0o600)
	if writeErr != nil {
		t.Fatalf("write temp file: %v", writeErr)
	}

	_, err := loadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadConfigBoundsWorkerCapAndInterval(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bounds.yaml")

	data := []byte("burn:\n  maxWorkers: 1000000\nprogress:\n  interval: 1000000h\n")

	writeErr := os.WriteFile(path, data, 0o600)
	if writeErr != nil {
		t.Fatalf("write temp file: %v", writeErr)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Burn.MaxWorkers != burn.HardMaxWorkers {
		t.Fatalf("expected worker cap clamped to %d, got %d", burn.HardMaxWorkers, cfg.Burn.MaxWorkers)
	}

	if cfg.Progress.Interval != progress.MaxInterval {
		t.Fatalf("expected interval clamped to %v, got %v", progress.MaxInterval, cfg.Progress.Interval)
	}
}

func TestLoadConfigZeroWorkerCapUsesDefault(t *testing.T) {
	t.Setenv(envMaxWorkers, "0")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.Burn.MaxWorkers != burn.DefaultMaxWorkers() {
		t.Fatalf("expected default worker cap, got %d", cfg.Burn.MaxWorkers)
	}
}
