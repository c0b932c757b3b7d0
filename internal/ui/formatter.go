package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"bletest/domain"
)

// Formatter formats and displays run output on the terminal.
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintSummary displays the run statistics table and, when anything failed,
// the per-module failure tree. A run that executed zero tests is reported
// distinctly from a run where everything passed.
func (f *Formatter) PrintSummary(summary *domain.RunSummary, duration time.Duration) {
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                      Test Run Statistics                      ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Total Tests")
	color.White("%-27d │\n", summary.Total)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Passed")
	color.Green("%-27d │\n", summary.Passed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Failed")
	color.Red("%-27d │\n", summary.Failed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	skipped := f.countStatus(summary, domain.StatusSkip)
	fmt.Printf("│ %-31s │ ", "Skipped")
	color.Yellow("%-27d │\n", skipped)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │\n", fmt.Sprintf("%.2fs", duration.Seconds()))

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	switch {
	case summary.Total == 0:
		color.Yellow("No tests were executed.")
	case summary.Failed == 0:
		color.Green("✓ All tests passed!")
	default:
		color.Red("✗ %d test(s) failed", summary.Failed)
		fmt.Println()
		f.printFailureTree(summary)
	}
}

func (f *Formatter) countStatus(summary *domain.RunSummary, status domain.Status) int {
	n := 0
	for _, r := range summary.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// printFailureTree prints the FAIL and ERROR results grouped by module.
func (f *Formatter) printFailureTree(summary *domain.RunSummary) {
	for _, mod := range summary.ByModule() {
		var failures []*domain.TestResult
		for _, r := range mod.Results {
			if r.Status == domain.StatusFail || r.Status == domain.StatusError {
				failures = append(failures, r)
			}
		}
		if len(failures) == 0 {
			continue
		}

		color.Cyan("%s", mod.Module)
		for i, r := range failures {
			connector := "├──"
			if i == len(failures)-1 {
				connector = "└──"
			}
			label := color.RedString("%s [%s]", r.Name, r.Status)
			fmt.Printf("  %s %s\n", connector, label)
			if r.Message != "" {
				pad := "  │   "
				if i == len(failures)-1 {
					pad = "      "
				}
				fmt.Printf("%s%s\n", pad, r.Message)
			}
		}
		fmt.Println()
	}
}

// PrintDiscoveredList prints the discovered modules and their tests as a
// tree, without executing anything.
func (f *Formatter) PrintDiscoveredList(modules []domain.DiscoveredModule) {
	total := 0
	for _, m := range modules {
		total += len(m.Tests)
	}
	color.Green("Found %d test(s) in %d module(s):\n", total, len(modules))

	for i, mod := range modules {
		isLastModule := i == len(modules)-1
		if isLastModule {
			color.Cyan("└── %s", mod.Module)
		} else {
			color.Cyan("├── %s", mod.Module)
		}

		if len(mod.Tests) == 0 {
			prefix := "│   └── "
			if isLastModule {
				prefix = "    └── "
			}
			fmt.Printf("%s%s\n", prefix, color.RedString("(no tests found)"))
			continue
		}

		for j, test := range mod.Tests {
			isLastTest := j == len(mod.Tests)-1
			var prefix string
			if isLastModule {
				if isLastTest {
					prefix = "    └── "
				} else {
					prefix = "    ├── "
				}
			} else {
				if isLastTest {
					prefix = "│   └── "
				} else {
					prefix = "│   ├── "
				}
			}
			fmt.Printf("%s%s\n", prefix, color.YellowString(test.Name))
		}

		if !isLastModule {
			fmt.Println()
		}
	}
}
