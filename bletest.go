// Package bletest is the embedding facade: programs that ship their own
// transport or binary can discover and run registered device test suites
// without going through the CLI.
package bletest

import (
	"context"
	"io"
	"log/slog"

	"bletest/ble"
	"bletest/domain"
	"bletest/internal/discovery"
	"bletest/internal/execution"
	"bletest/suite"
	"bletest/testctx"
)

// Options configures an embedded run.
type Options struct {
	// BaseDir is the directory test discovery starts from. Defaults to ".".
	BaseDir string

	// Registry holds the suite builders. Defaults to suite.Default.
	Registry *suite.Registry

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Output receives user-facing test output. Defaults to stdout.
	Output io.Writer

	// Prompter answers operator confirmations. Defaults to stdin.
	Prompter testctx.Prompter

	// OnResult, when set, observes each finalized result.
	OnResult func(*domain.TestResult)
}

func (o Options) withDefaults() Options {
	if o.BaseDir == "" {
		o.BaseDir = "."
	}
	if o.Registry == nil {
		o.Registry = suite.Default
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Run discovers the tests selected by the specifiers (all tests when none
// are given) and runs them sequentially against the device. Discovery and
// load errors are returned alongside the summary; they never abort the
// tests that did resolve.
func Run(ctx context.Context, dev ble.Device, specifiers []string, opts Options) (*domain.RunSummary, []error) {
	opts = opts.withDefaults()

	engine := discovery.NewEngine(opts.BaseDir, opts.Registry, opts.Logger)
	mods, errs := engine.Discover(specifiers)

	tcOpts := []testctx.Option{testctx.WithLogger(opts.Logger)}
	if opts.Output != nil {
		tcOpts = append(tcOpts, testctx.WithOutput(opts.Output))
	}
	if opts.Prompter != nil {
		tcOpts = append(tcOpts, testctx.WithPrompter(opts.Prompter))
	}
	tc := testctx.New(dev, tcOpts...)

	runner := execution.NewRunner(tc, opts.Logger)
	runner.OnResult = opts.OnResult
	return runner.RunModules(ctx, mods), errs
}

// List discovers without executing: the modules and tests the specifiers
// resolve to, plus any discovery or load errors.
func List(specifiers []string, opts Options) ([]domain.DiscoveredModule, []error) {
	opts = opts.withDefaults()

	engine := discovery.NewEngine(opts.BaseDir, opts.Registry, opts.Logger)
	mods, errs := engine.Discover(specifiers)

	out := make([]domain.DiscoveredModule, 0, len(mods))
	for _, m := range mods {
		dm := domain.DiscoveredModule{Module: m.Module}
		for _, t := range m.Tests {
			dm.Tests = append(dm.Tests, domain.DiscoveredTest{Name: t.Name, Description: t.Description})
		}
		out = append(out, dm)
	}
	return out, errs
}
