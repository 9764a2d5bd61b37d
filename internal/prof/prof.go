// Package prof starts and stops the Go runtime profilers for one CLI run.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

// Options names the output files; empty paths disable that profiler.
type Options struct {
	CPUProfile   string
	MemProfile   string
	RuntimeTrace string
}

// Session holds the profilers started by Start.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
	once      sync.Once
	err       error
}

// Start enables the profilers named in opts. On error nothing stays running.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if opts.RuntimeTrace != "" {
		f, err := os.Create(opts.RuntimeTrace)
		if err == nil {
			err = trace.Start(f)
			if err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Enabled reports whether any profiler was requested.
func (s *Session) Enabled() bool {
	return s != nil && (s.opts.CPUProfile != "" || s.opts.MemProfile != "" || s.opts.RuntimeTrace != "")
}

// Stop ends the running profilers and writes the heap profile. Calls after
// the first return the first result.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		var errs []error
		if s.traceFile != nil {
			trace.Stop()
			errs = append(errs, s.traceFile.Close())
			s.traceFile = nil
		}
		errs = append(errs, s.stopCPU())
		if s.opts.MemProfile != "" {
			errs = append(errs, writeMem(s.opts.MemProfile))
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

// writeMem captures a heap profile to path.
func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
