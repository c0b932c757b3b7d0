package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bletest/ble"
	"bletest/domain"
	"bletest/internal/config"
	"bletest/internal/discovery"
	"bletest/internal/execution"
	"bletest/internal/storage"
	"bletest/internal/ui"
	"bletest/suite"
	"bletest/testctx"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	registry  *suite.Registry
	connector ble.Connector
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	reg *suite.Registry,
	connector ble.Connector,
	st storage.Storage,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		registry:  reg,
		connector: connector,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	connector := rc.connector
	if rc.config.Flags.Sim {
		connector = ble.SimConnector{}
	}
	if connector == nil {
		return errors.New("no device transport available; use --sim or embed a connector")
	}

	dev, err := connector.Connect(ctx, rc.config.DeviceConfig())
	if err != nil {
		return fmt.Errorf("connect device: %w", err)
	}

	engine := discovery.NewEngine(rc.config.GetBaseDir(), rc.registry, logger)
	mods, discErrs := engine.Discover(args)
	for _, derr := range discErrs {
		color.Red("%v", derr)
	}

	total := 0
	for _, m := range mods {
		total += len(m.Tests)
	}
	if total == 0 {
		color.Yellow("No tests to execute")
		if len(discErrs) > 0 {
			return fmt.Errorf("%d specifier(s) failed to resolve", len(discErrs))
		}
		return nil
	}

	tc := testctx.New(dev, testctx.WithLogger(logger))
	runner := execution.NewRunner(tc, logger)

	progress := ui.NewProgressBar(total)
	completed, passed, failed := 0, 0, 0
	runner.OnResult = func(r *domain.TestResult) {
		completed++
		switch r.Status {
		case domain.StatusPass:
			passed++
		case domain.StatusFail, domain.StatusError:
			failed++
		}
		progress.Update(completed, passed, failed)
	}

	start := time.Now()
	summary := runner.RunModules(ctx, mods)
	duration := time.Since(start)
	progress.Finish()

	if err := rc.storage.Save(summary, duration); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	rc.formatter.PrintSummary(summary, duration)

	if summary.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", summary.Failed)
	}
	if len(discErrs) > 0 {
		return fmt.Errorf("%d specifier(s) failed to resolve", len(discErrs))
	}
	return nil
}
