package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tsunused/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags; nil
// when none is requested.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Flags()
	var cfg prof.Config
	var err error
	if cfg.CPUProfile, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.MemProfile, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.RuntimeTrace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}
