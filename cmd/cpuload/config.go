package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cpuload/pkg/burn"
	"cpuload/pkg/client"
	"cpuload/pkg/hostcpu"
	"cpuload/pkg/progress"
	"cpuload/pkg/service"
)

const (
	envServerAddr       = "CPULOAD_ADDR"
	envMaxWorkers       = "CPULOAD_MAX_WORKERS"
	envIdlePriority     = "CPULOAD_IDLE_PRIORITY"
	envProgressInterval = "CPULOAD_PROGRESS_INTERVAL"
	envProgressMode     = "CPULOAD_PROGRESS_MODE"
	envHostCPU          = "CPULOAD_HOSTCPU"
	envHostCPUInterval  = "CPULOAD_HOSTCPU_INTERVAL"
	envHTTPBind         = "HTTP_ADDR"

	defaultHTTPBind = ":9108"
)

type runtimeConfig struct {
	Server   serverConfig
	Burn     burnConfig
	Progress progressConfig
	HostCPU  hostCPUConfig
	HTTP     httpConfig
}

type serverConfig struct {
	Addr string
}

type burnConfig struct {
	MaxWorkers   int
	IdlePriority bool
}

type progressConfig struct {
	Interval time.Duration
	Mode     string
}

type hostCPUConfig struct {
	Enabled  bool
	Interval time.Duration
}

type httpConfig struct {
	Bind string
}

type fileConfig struct {
	Server   serverFileConfig   `yaml:"server"`
	Burn     burnFileConfig     `yaml:"burn"`
	Progress progressFileConfig `yaml:"progress"`
	HostCPU  hostCPUFileConfig  `yaml:"hostcpu"`
	HTTP     httpFileConfig     `yaml:"http"`
}

type serverFileConfig struct {
	Addr *string `yaml:"addr"`
}

type burnFileConfig struct {
	MaxWorkers   *int  `yaml:"maxWorkers"`
	IdlePriority *bool `yaml:"idlePriority"`
}

type progressFileConfig struct {
	Interval *time.Duration `yaml:"interval"`
	Mode     *string        `yaml:"mode"`
}

type hostCPUFileConfig struct {
	Enabled  *bool          `yaml:"enabled"`
	Interval *time.Duration `yaml:"interval"`
}

type httpFileConfig struct {
	Bind *string `yaml:"bind"`
}

var errInvalidProgressMode = errors.New("invalid progress mode")

func defaultRuntimeConfig() runtimeConfig {
	defaults := service.DefaultConfig()

	var cfg runtimeConfig

	cfg.Server.Addr = client.DefaultAddress
	cfg.Burn.MaxWorkers = defaults.MaxWorkers
	cfg.Burn.IdlePriority = defaults.IdlePriority
	cfg.Progress.Interval = defaults.ProgressInterval
	cfg.Progress.Mode = string(defaults.Mode)
	cfg.HostCPU.Enabled = defaults.HostCPU
	cfg.HostCPU.Interval = defaults.HostCPUInterval
	cfg.HTTP.Bind = defaultHTTPBind

	return cfg
}

func loadConfig(path string) (runtimeConfig, error) {
	cfg := defaultRuntimeConfig()

	trimmed := strings.TrimSpace(path)
	if trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return runtimeConfig{}, fmt.Errorf("read config file %q: %w", trimmed, err)
			}
		} else {
			var fileCfg fileConfig

			err := yaml.Unmarshal(data, &fileCfg)
			if err != nil {
				return runtimeConfig{}, fmt.Errorf("decode config file %q: %w", trimmed, err)
			}

			mergeFileConfig(&cfg, fileCfg)
		}
	}

	applyEnvOverrides(&cfg)

	mode := service.Mode(cfg.Progress.Mode)
	if !mode.Valid() {
		return runtimeConfig{}, fmt.Errorf(
			"%w: %q (supported: %s, %s)",
			errInvalidProgressMode,
			cfg.Progress.Mode,
			service.ModeConcurrent,
			service.ModeReplay,
		)
	}

	return cfg, nil
}

func mergeFileConfig(dst *runtimeConfig, src fileConfig) {
	assignString(&dst.Server.Addr, src.Server.Addr)
	assignInt(&dst.Burn.MaxWorkers, src.Burn.MaxWorkers)
	assignBool(&dst.Burn.IdlePriority, src.Burn.IdlePriority)
	assignDuration(&dst.Progress.Interval, src.Progress.Interval)
	assignString(&dst.Progress.Mode, src.Progress.Mode)
	assignBool(&dst.HostCPU.Enabled, src.HostCPU.Enabled)
	assignDuration(&dst.HostCPU.Interval, src.HostCPU.Interval)
	assignString(&dst.HTTP.Bind, src.HTTP.Bind)
}

func applyEnvOverrides(cfg *runtimeConfig) {
	cfg.Server.Addr = envString(envServerAddr, cfg.Server.Addr)
	cfg.Burn.MaxWorkers = envInt(envMaxWorkers, cfg.Burn.MaxWorkers)
	cfg.Burn.IdlePriority = envBool(envIdlePriority, cfg.Burn.IdlePriority)
	cfg.Progress.Interval = envDuration(envProgressInterval, cfg.Progress.Interval)
	cfg.Progress.Mode = envString(envProgressMode, cfg.Progress.Mode)
	cfg.HostCPU.Enabled = envBool(envHostCPU, cfg.HostCPU.Enabled)
	cfg.HostCPU.Interval = envDuration(envHostCPUInterval, cfg.HostCPU.Interval)
	cfg.HTTP.Bind = envRawString(envHTTPBind, cfg.HTTP.Bind)

	cfg.Progress.Mode = strings.ToLower(strings.TrimSpace(cfg.Progress.Mode))

	if cfg.Burn.MaxWorkers <= 0 {
		cfg.Burn.MaxWorkers = burn.DefaultMaxWorkers()
	}

	cfg.Burn.MaxWorkers = min(cfg.Burn.MaxWorkers, burn.HardMaxWorkers)

	if cfg.Progress.Interval <= 0 {
		cfg.Progress.Interval = progress.DefaultInterval
	}

	cfg.Progress.Interval = min(cfg.Progress.Interval, progress.MaxInterval)

	if cfg.HostCPU.Interval <= 0 {
		cfg.HostCPU.Interval = hostcpu.DefaultInterval
	}
}

func (cfg runtimeConfig) serviceConfig() service.Config {
	return service.Config{
		Mode:             service.Mode(cfg.Progress.Mode),
		ProgressInterval: cfg.Progress.Interval,
		MaxWorkers:       cfg.Burn.MaxWorkers,
		IdlePriority:     cfg.Burn.IdlePriority,
		HostCPU:          cfg.HostCPU.Enabled,
		HostCPUInterval:  cfg.HostCPU.Interval,
	}
}

var lookupEnv = os.LookupEnv //nolint:gochecknoglobals // overridden in tests

func assignDuration(target *time.Duration, value *time.Duration) {
	if value != nil {
		*target = *value
	}
}

func assignInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func assignBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

// assignString trims the value. An explicit empty string is kept so a file
// can disable an optional listener.
func assignString(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	duration, err := time.ParseDuration(trimmed)
	if err != nil {
		return fallback
	}

	return duration
}

func envInt(key string, fallback int) int {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}

func envBool(key string, fallback bool) bool {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}

	return parsed
}

func envString(key, fallback string) string {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	return trimmed
}

// envRawString is envString except that a set-but-empty variable clears the value.
func envRawString(key, fallback string) string {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}

	return strings.TrimSpace(value)
}
