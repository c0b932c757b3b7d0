package commands

import (
	"github.com/spf13/cobra"

	"bletest/ble"
	"bletest/internal/cli"
	"bletest/internal/config"
	"bletest/internal/storage"
	"bletest/internal/ui"
	"bletest/suite"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. connector may be nil;
// the run command then requires --sim.
func NewCommands(cfg *config.Config, reg *suite.Registry, connector ble.Connector) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter()
	failureViewer := ui.NewFailureViewer()

	return &Commands{
		Run:      NewRunCommand(cfg, reg, connector, jsonStorage, formatter),
		List:     NewListCommand(cfg, reg, formatter),
		Failures: NewFailuresCommand(cfg, jsonStorage, failureViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		*cfg = *config.Load(flags.ToConfigFlags())
		cli.SetupLogger(flags.Verbose)
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [specifier...]",
		Short: "Run device tests",
		Long: "Discover tests matching the given specifiers (all tests when none are given) " +
			"and run them sequentially against the connected device",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.BaseDir, "base-dir", "d", "", "Directory where test discovery starts")
	runCmd.Flags().StringVarP(&flags.Address, "address", "a", "", "Peripheral address to connect to")
	runCmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Peripheral name to scan for")
	runCmd.Flags().DurationVar(&flags.ScanTimeout, "scan-timeout", 0, "Device scan timeout (e.g. 5s)")
	runCmd.Flags().BoolVar(&flags.Sim, "sim", false, "Run against the in-memory simulated device")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [specifier...]",
		Short:   "List discovered tests",
		Long:    "Resolve the given specifiers and list the matching tests without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.BaseDir, "base-dir", "d", "", "Directory where test discovery starts")
	listCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display the failed tests of the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(failuresCmd)
}
