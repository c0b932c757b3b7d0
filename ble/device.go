// Package ble defines the device collaborator consumed by the test engine.
// The physical transport lives outside this module; the engine only depends
// on the narrow Device contract below.
package ble

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotConnected is returned by device operations after the connection is
// gone. The engine performs no retry; a connection-level failure surfaces as
// an ERROR-status result.
var ErrNotConnected = errors.New("ble: not connected")

// NotificationFunc receives the payload of a characteristic notification.
// It may be invoked from a transport-owned goroutine.
type NotificationFunc func(data []byte)

// Device is the connection to a single BLE peripheral. One run owns exactly
// one Device and never exercises it from two tests concurrently.
type Device interface {
	// Read reads the current value of a characteristic.
	Read(ctx context.Context, char uuid.UUID) ([]byte, error)

	// Write writes a value to a characteristic, optionally waiting for the
	// peripheral's response.
	Write(ctx context.Context, char uuid.UUID, data []byte, withResponse bool) error

	// Subscribe registers fn for notifications from a characteristic.
	Subscribe(char uuid.UUID, fn NotificationFunc) error

	// Unsubscribe stops notifications from a characteristic.
	Unsubscribe(char uuid.UUID) error
}

// Connector establishes a device connection from a Config. Implementations
// own scanning, pairing and any retry policy.
type Connector interface {
	Connect(ctx context.Context, cfg Config) (Device, error)
}
