package domain

import "fmt"

// DiscoveryError means a specifier resolved to zero matching files. It is
// terminal for that specifier and does not block other specifiers.
type DiscoveryError struct {
	Specifier string
	Reason    string
}

func (e *DiscoveryError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no test files found for specifier %q", e.Specifier)
	}
	return fmt.Sprintf("no test files found for specifier %q: %s", e.Specifier, e.Reason)
}

// LoadError means a single module failed to load. Discovery continues with
// the remaining candidates.
type LoadError struct {
	ImportID string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load module %s: %v", e.ImportID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Failure is an explicit assertion-style test failure, mapped to FAIL.
type Failure struct{ Message string }

func (e *Failure) Error() string { return e.Message }

// Failf returns a Failure with a formatted message.
func Failf(format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

// Skip marks a test as skipped, mapped to SKIP.
type Skip struct{ Message string }

func (e *Skip) Error() string { return e.Message }

// Skipf returns a Skip with a formatted message.
func Skipf(format string, args ...any) error {
	return &Skip{Message: fmt.Sprintf(format, args...)}
}

// Timeout signals that a wait expired before the expected condition was
// observed. Mapped to ERROR: device silence is not an assertion failure.
type Timeout struct{ Message string }

func (e *Timeout) Error() string { return e.Message }

// Timeoutf returns a Timeout with a formatted message.
func Timeoutf(format string, args ...any) error {
	return &Timeout{Message: fmt.Sprintf(format, args...)}
}

// TestError carries its own target status, for tests that decide their
// outcome themselves.
type TestError struct {
	Status  Status
	Message string
}

func (e *TestError) Error() string { return e.Message }
