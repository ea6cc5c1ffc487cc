package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/observability"
)

// profiler holds the optional profiling state of one command run.
type profiler struct {
	cpuFile   string
	memFile   string
	resources bool

	cpu     *os.File
	monitor *observability.ResourceMonitor
}

func (p *profiler) start() error {
	if p.resources {
		rm, err := observability.NewResourceMonitor()
		if err != nil {
			return err
		}
		p.monitor = rm
	}
	if p.cpuFile == "" {
		return nil
	}
	f, err := os.Create(p.cpuFile)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	p.cpu = f
	return nil
}

func (p *profiler) stop(log *zap.Logger) error {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		p.cpu.Close()
		p.cpu = nil
		log.Debug("CPU profile written", zap.String("path", p.cpuFile))
	}
	if p.memFile != "" {
		f, err := os.Create(p.memFile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // Get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		log.Debug("memory profile written", zap.String("path", p.memFile))
	}
	if p.monitor != nil {
		log.Info("resource usage", p.monitor.Usage().Fields()...)
	}
	return nil
}
