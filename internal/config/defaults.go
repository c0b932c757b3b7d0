package config

const (
	// DefaultBaseDir is the default test search root
	DefaultBaseDir = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".bletest"
	// DefaultConfigFile is the optional per-project config file
	DefaultConfigFile = ".bletest.yml"
	// DefaultScanTimeoutSeconds is the default device scan timeout
	DefaultScanTimeoutSeconds = 10
)

// Environment variables consulted after the .env file is loaded.
const (
	EnvDeviceAddress = "BLETEST_ADDRESS"
	EnvDeviceName    = "BLETEST_NAME"
	EnvBaseDir       = "BLETEST_BASE_DIR"
)
