package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bletest/internal/cli"
	"bletest/internal/cli/commands"
	"bletest/internal/config"
	"bletest/suite"

	// Example suites register themselves into the default registry.
	_ "bletest/examples/blinky/tests"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "bletest",
		Short:   "BLE device test runner",
		Long:    `A test runner for BLE peripherals. Discovers registered device test suites, runs them sequentially against one shared connection, and reports per-test results.`,
		Version: version,

		SilenceUsage: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies. No real transport ships with the
	// binary; run requires --sim unless a connector is embedded.
	cmds := commands.NewCommands(cfg, suite.Default, nil)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// A signal stops the batch after the in-flight test; cleanup still runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
