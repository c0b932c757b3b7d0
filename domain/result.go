package domain

import (
	"strings"
	"time"
)

// LogEntry is one line captured while a test was running.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// TestResult represents the outcome of a single test. It is created when the
// test starts and finalized exactly once when it ends.
type TestResult struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Duration    time.Duration `json:"duration"`
	Logs        []LogEntry    `json:"logs,omitempty"`
}

// Module returns the module component of the qualified test name.
func (r *TestResult) Module() string {
	if i := strings.Index(r.Name, "."); i >= 0 {
		return r.Name[:i]
	}
	return r.Name
}

// RunSummary aggregates the results of one run in execution order.
type RunSummary struct {
	Results []*TestResult `json:"results"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Total   int           `json:"total"`
}

// ModuleResults is the reporting view of a summary: one entry per module,
// ordered by first appearance, each carrying its results in execution order.
type ModuleResults struct {
	Module  string        `json:"module"`
	Results []*TestResult `json:"results"`
}

// ByModule groups the summary's results by module name.
func (s *RunSummary) ByModule() []ModuleResults {
	var out []ModuleResults
	index := make(map[string]int)
	for _, r := range s.Results {
		mod := r.Module()
		i, ok := index[mod]
		if !ok {
			i = len(out)
			index[mod] = i
			out = append(out, ModuleResults{Module: mod})
		}
		out[i].Results = append(out[i].Results, r)
	}
	return out
}

// DiscoveredTest is a test selected by discovery but not yet executed.
type DiscoveredTest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DiscoveredModule is one module's worth of discovered tests.
type DiscoveredModule struct {
	Module string           `json:"module"`
	Tests  []DiscoveredTest `json:"tests"`
}
