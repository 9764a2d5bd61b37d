package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracer receives trace events. Implementations must be goroutine-safe:
// check workers emit concurrently.
type Tracer interface {
	Emit(ev *Event)
	// Flush writes buffered events out.
	Flush() error
	// Close flushes and releases the output.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as emitted
	ModeRing                          // kept in memory, dumped on panic
	ModeBoth                          // stream + ring
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer     // stream output; nil opens OutputPath
	OutputPath string        // file path; "" and "-" mean stderr
	RingSize   int           // ring capacity, defaultRingSize when <= 0
	Heartbeat  time.Duration // 0 disables the heartbeat
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}

	var stream, ring Tracer
	if cfg.Mode == 0 || cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream = NewStreamTracer(w, cfg.Level, formatFor(cfg))
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		ring = NewRingTracer(cfg.RingSize, cfg.Level)
	}

	switch {
	case stream != nil && ring != nil:
		return NewMultiTracer(cfg.Level, stream, ring), nil
	case stream != nil:
		return stream, nil
	case ring != nil:
		return ring, nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// formatFor resolves FormatAuto from the output file extension.
func formatFor(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
