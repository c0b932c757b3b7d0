package ble

import (
	"time"

	"github.com/google/uuid"
)

// DefaultScanTimeout bounds device scans when the config does not set one.
const DefaultScanTimeout = 10 * time.Second

// Config selects the peripheral to connect to. It is passed explicitly into
// the connection pipeline; there is no process-global service registry.
type Config struct {
	// Address filters by peripheral address; takes precedence over Name.
	Address string

	// Name filters by peripheral name (substring match).
	Name string

	// ScanTimeout bounds the scan phase of Connect.
	ScanTimeout time.Duration

	// ExpectedServices lists service UUIDs a candidate peripheral should
	// advertise. Connectors may use it to shortlist already-connected
	// peripherals instead of scanning.
	ExpectedServices []uuid.UUID
}

// WithDefaults returns a copy of the config with zero fields filled in.
func (c Config) WithDefaults() Config {
	if c.ScanTimeout <= 0 {
		c.ScanTimeout = DefaultScanTimeout
	}
	return c
}
