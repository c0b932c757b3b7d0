package storage

import (
	"testing"
	"time"

	"bletest/domain"
	"bletest/internal/config"
)

func TestJSONStorage_SaveThenLoad(t *testing.T) {
	cfg := config.New()
	cfg.OutputJSONDir = t.TempDir()

	summary := &domain.RunSummary{
		Results: []*domain.TestResult{
			{Name: "test_led.test_on", Status: domain.StatusPass},
			{Name: "test_led.test_off", Status: domain.StatusFail, Message: "stayed lit"},
			{Name: "test_button.test_press", Status: domain.StatusError, Message: "no notification"},
		},
		Passed: 1, Failed: 2, Total: 3,
	}

	s := NewJSONStorage(cfg)
	if err := s.Save(summary, 4200*time.Millisecond); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	output, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if output.Meta.Total != 3 || output.Meta.Passed != 1 || output.Meta.Failed != 2 {
		t.Errorf("unexpected meta: %+v", output.Meta)
	}
	if len(output.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(output.Modules))
	}

	failures := output.Failures()
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if failures[0].Name != "test_led.test_off" {
		t.Errorf("unexpected first failure %s", failures[0].Name)
	}
}

func TestJSONStorage_LoadMissingFile(t *testing.T) {
	cfg := config.New()
	cfg.OutputJSONDir = t.TempDir()

	if _, err := NewJSONStorage(cfg).Load(); err == nil {
		t.Error("expected error for missing results file")
	}
}
