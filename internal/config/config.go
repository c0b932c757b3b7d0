// Package config assembles the runtime configuration from defaults, the
// optional .bletest.yml project file, the environment (.env included) and
// command-line flags, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bletest/ble"
)

// Config holds all configuration for the application
type Config struct {
	// Where to look for test files
	BaseDir string

	// Device selection
	DeviceAddress string
	DeviceName    string
	ScanTimeout   time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	BaseDir     string
	Address     string
	Name        string
	ScanTimeout time.Duration
	Sim         bool
	Verbose     bool
}

// fileConfig is the shape of the optional .bletest.yml project file.
type fileConfig struct {
	BaseDir            string `yaml:"base_dir"`
	Address            string `yaml:"address"`
	Name               string `yaml:"name"`
	ScanTimeoutSeconds int    `yaml:"scan_timeout_seconds"`
	OutputDir          string `yaml:"output_dir"`
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		BaseDir:        DefaultBaseDir,
		ScanTimeout:    DefaultScanTimeoutSeconds * time.Second,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
	}
}

// Load creates a config and applies the project file, environment and flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	cfg.applyFile(DefaultConfigFile)

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load()
	cfg.applyEnv()

	if flags.BaseDir != "" {
		cfg.BaseDir = flags.BaseDir
	}
	if flags.Address != "" {
		cfg.DeviceAddress = flags.Address
	}
	if flags.Name != "" {
		cfg.DeviceName = flags.Name
	}
	if flags.ScanTimeout > 0 {
		cfg.ScanTimeout = flags.ScanTimeout
	}

	return cfg
}

func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}
	if fc.BaseDir != "" {
		c.BaseDir = fc.BaseDir
	}
	if fc.Address != "" {
		c.DeviceAddress = fc.Address
	}
	if fc.Name != "" {
		c.DeviceName = fc.Name
	}
	if fc.ScanTimeoutSeconds > 0 {
		c.ScanTimeout = time.Duration(fc.ScanTimeoutSeconds) * time.Second
	}
	if fc.OutputDir != "" {
		c.OutputJSONDir = fc.OutputDir
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDeviceAddress); v != "" {
		c.DeviceAddress = v
	}
	if v := os.Getenv(EnvDeviceName); v != "" {
		c.DeviceName = v
	}
	if v := os.Getenv(EnvBaseDir); v != "" {
		c.BaseDir = v
	}
}

// GetBaseDir returns the test search root as an absolute path
func (c *Config) GetBaseDir() string {
	if abs, err := filepath.Abs(c.BaseDir); err == nil {
		return abs
	}
	return c.BaseDir
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DeviceConfig returns the connection config for the device collaborator
func (c *Config) DeviceConfig() ble.Config {
	return ble.Config{
		Address:     c.DeviceAddress,
		Name:        c.DeviceName,
		ScanTimeout: c.ScanTimeout,
	}.WithDefaults()
}
