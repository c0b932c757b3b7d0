package cli

import (
	"log/slog"
	"os"
	"time"

	"bletest/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	BaseDir     string
	Address     string
	Name        string
	ScanTimeout time.Duration
	Sim         bool
	Verbose     bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		BaseDir:     f.BaseDir,
		Address:     f.Address,
		Name:        f.Name,
		ScanTimeout: f.ScanTimeout,
		Sim:         f.Sim,
		Verbose:     f.Verbose,
	}
}

// SetupLogger installs the process logger: debug level when verbose,
// warnings only otherwise (test output itself goes through the execution
// context, not the logger).
func SetupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
