package telemetry

import (
	"github.com/grafana/pyroscope-go"
)

// ProfilingConfig configures the optional continuous profiler for
// long-running kekbit tail processes, grounded on
// dittofs/internal/telemetry/profiling.go.
type ProfilingConfig struct {
	ApplicationName string
	ServerAddress   string
	Enabled         bool
}

var profiler *pyroscope.Profiler

// InitProfiling starts the pyroscope profiler if cfg.Enabled, else is
// a no-op. Returns a shutdown func safe to call unconditionally.
func InitProfiling(cfg ProfilingConfig) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}
	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
		},
	})
	if err != nil {
		return nil, err
	}
	profiler = p
	return func() {
		if profiler != nil {
			profiler.Stop()
		}
	}, nil
}
