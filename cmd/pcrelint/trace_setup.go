package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pcrelint/internal/trace"
)

// activeTracer is the tracer of the running command, kept for panic dumps.
var activeTracer trace.Tracer = trace.Nop

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()

	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := pf.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace without a level means phase-level tracing
	if level == trace.LevelOff && traceOutput != "" && !pf.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		activeTracer = trace.Nop
	}
	return cleanup, nil
}

// dumpTraceOnPanic writes the ring buffer, if any, to stderr before the
// panic continues.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	var ring *trace.RingTracer
	switch t := activeTracer.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring, _ = t.Ring()
	}
	if ring != nil {
		fmt.Fprintln(os.Stderr, "== last trace events ==")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	_ = activeTracer.Flush()
	panic(r)
}
