package commands

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bletest/domain"
	"bletest/internal/config"
	"bletest/internal/discovery"
	"bletest/internal/ui"
	"bletest/suite"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	registry  *suite.Registry
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, reg *suite.Registry, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		registry:  reg,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	engine := discovery.NewEngine(lc.config.GetBaseDir(), lc.registry, slog.Default())
	mods, errs := engine.Discover(args)
	for _, err := range errs {
		color.Red("%v", err)
	}

	if len(mods) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	discovered := make([]domain.DiscoveredModule, 0, len(mods))
	for _, m := range mods {
		dm := domain.DiscoveredModule{Module: m.Module}
		for _, t := range m.Tests {
			dm.Tests = append(dm.Tests, domain.DiscoveredTest{Name: t.Name, Description: t.Description})
		}
		discovered = append(discovered, dm)
	}

	lc.formatter.PrintDiscoveredList(discovered)
	return nil
}
