package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tsunused/internal/trace"
)

// traceSession owns the tracer of one CLI invocation.
type traceSession struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	stderr    io.Writer
}

// setupTracing reads the --trace* flags, attaches a tracer to the command
// context and returns the session to close when the command finishes.
// status feeds the heartbeat detail.
func setupTracing(cmd *cobra.Command, stderr io.Writer, status func() string) (*traceSession, error) {
	flags := cmd.Flags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	interval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазовую трассировку
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  interval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	s := &traceSession{tracer: tracer, stderr: stderr}
	if interval > 0 {
		s.heartbeat = trace.StartHeartbeat(tracer, interval, status)
	}
	return s, nil
}

// close stops the heartbeat and flushes the tracer. After a fatal error the
// ring buffer (if any) is dumped to stderr first.
func (s *traceSession) close(fatal bool) {
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if fatal {
		if ring := trace.FindRing(s.tracer); ring != nil {
			fmt.Fprintln(s.stderr, "== trace (last events) ==")
			if err := ring.Dump(s.stderr, trace.FormatText); err != nil {
				fmt.Fprintf(s.stderr, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(s.stderr, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(s.stderr, "trace: close error: %v\n", err)
	}
}
