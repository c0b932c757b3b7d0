package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("expected BaseDir %s, got %s", DefaultBaseDir, cfg.BaseDir)
	}
	if cfg.ScanTimeout != DefaultScanTimeoutSeconds*time.Second {
		t.Errorf("expected ScanTimeout %ds, got %s", DefaultScanTimeoutSeconds, cfg.ScanTimeout)
	}
	if cfg.OutputJSONFile != DefaultOutputJSONFile {
		t.Errorf("expected OutputJSONFile %s, got %s", DefaultOutputJSONFile, cfg.OutputJSONFile)
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults without flags",
			flags: Flags{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.BaseDir != DefaultBaseDir {
					t.Errorf("expected default BaseDir, got %s", cfg.BaseDir)
				}
			},
		},
		{
			name:  "base dir flag wins",
			flags: Flags{BaseDir: "fixtures"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.BaseDir != "fixtures" {
					t.Errorf("expected fixtures, got %s", cfg.BaseDir)
				}
			},
		},
		{
			name:  "device flags win",
			flags: Flags{Address: "C0:FF:EE:00:00:01", Name: "blinky", ScanTimeout: 3 * time.Second},
			check: func(t *testing.T, cfg *Config) {
				if cfg.DeviceAddress != "C0:FF:EE:00:00:01" {
					t.Errorf("unexpected address %s", cfg.DeviceAddress)
				}
				if cfg.DeviceName != "blinky" {
					t.Errorf("unexpected name %s", cfg.DeviceName)
				}
				if cfg.ScanTimeout != 3*time.Second {
					t.Errorf("unexpected scan timeout %s", cfg.ScanTimeout)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Load(tt.flags))
		})
	}
}

func TestConfig_ApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	body := "base_dir: devices\naddress: AA:BB:CC:DD:EE:FF\nscan_timeout_seconds: 5\noutput_dir: results\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := New()
	cfg.applyFile(path)

	if cfg.BaseDir != "devices" {
		t.Errorf("expected BaseDir devices, got %s", cfg.BaseDir)
	}
	if cfg.DeviceAddress != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("unexpected address %s", cfg.DeviceAddress)
	}
	if cfg.ScanTimeout != 5*time.Second {
		t.Errorf("unexpected scan timeout %s", cfg.ScanTimeout)
	}
	if cfg.OutputJSONDir != "results" {
		t.Errorf("unexpected output dir %s", cfg.OutputJSONDir)
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvDeviceAddress, "11:22:33:44:55:66")
	t.Setenv(EnvBaseDir, "envdir")

	cfg := New()
	cfg.applyEnv()

	if cfg.DeviceAddress != "11:22:33:44:55:66" {
		t.Errorf("unexpected address %s", cfg.DeviceAddress)
	}
	if cfg.BaseDir != "envdir" {
		t.Errorf("unexpected base dir %s", cfg.BaseDir)
	}
}

func TestConfig_DeviceConfig(t *testing.T) {
	cfg := New()
	cfg.DeviceAddress = "C0:FF:EE:00:00:01"

	dc := cfg.DeviceConfig()
	if dc.Address != "C0:FF:EE:00:00:01" {
		t.Errorf("unexpected address %s", dc.Address)
	}
	if dc.ScanTimeout != DefaultScanTimeoutSeconds*time.Second {
		t.Errorf("unexpected scan timeout %s", dc.ScanTimeout)
	}
}
