package storage

import (
	"time"

	"bletest/domain"
	"bletest/internal/config"
)

// Storage persists and loads run summaries (e.g. for the failures viewer).
type Storage interface {
	Save(summary *domain.RunSummary, duration time.Duration) error
	Load() (*RunOutput, error)
}

// RunMeta describes one persisted run.
type RunMeta struct {
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the persisted form of a run: meta plus results grouped by
// module.
type RunOutput struct {
	Meta    RunMeta                `json:"meta"`
	Modules []domain.ModuleResults `json:"modules"`
}

// Failures returns the persisted results that ended FAIL or ERROR, in run
// order.
func (o *RunOutput) Failures() []*domain.TestResult {
	var out []*domain.TestResult
	for _, m := range o.Modules {
		for _, r := range m.Results {
			if r.Status == domain.StatusFail || r.Status == domain.StatusError {
				out = append(out, r)
			}
		}
	}
	return out
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
