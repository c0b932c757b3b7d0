// Package suite is the registration API for device test suites. Tests
// register into typed tables with explicit declaration-order indices; the
// discovery engine never introspects source code.
package suite

import (
	"context"

	"bletest/ble"
	"bletest/testctx"
)

// TestFunc is a standalone test entry point.
type TestFunc func(ctx context.Context, dev ble.Device, tc *testctx.Context) error

// GroupTestFunc is a group-bound test entry point. self is the instance
// returned by the group's constructor for this test.
type GroupTestFunc func(ctx context.Context, self any, dev ble.Device, tc *testctx.Context) error

// SetUpper is implemented by group instances that need per-test setup. SetUp
// runs before the test method; an error aborts the method.
type SetUpper interface {
	SetUp(ctx context.Context, dev ble.Device, tc *testctx.Context) error
}

// TearDowner is implemented by group instances that need per-test teardown.
// TearDown always runs once the instance exists, whatever the test outcome;
// its error is logged and swallowed.
type TearDowner interface {
	TearDown(ctx context.Context, dev ble.Device, tc *testctx.Context) error
}

// Entry is one registered test. Handler is kept untyped so that extraction
// can skip (with a warning) anything that does not have a conforming
// signature, mirroring how non-runnable callables are ignored rather than
// failing discovery.
type Entry struct {
	Name        string
	Description string
	Order       int
	Tagged      bool
	Handler     any
}

// Option configures a registered entry.
type Option func(*Entry)

// WithDescription attaches a human-readable description and marks the entry
// as an explicit test, whatever its name.
func WithDescription(desc string) Option {
	return func(e *Entry) {
		e.Description = desc
		e.Tagged = true
	}
}

// Tagged marks the entry as an explicit test, exempting it from the test_
// naming convention.
func Tagged() Option {
	return func(e *Entry) { e.Tagged = true }
}

// Group is the class analog: a named set of test entries sharing an
// optional per-test instance with SetUp/TearDown hooks.
type Group struct {
	Name    string
	Entries []Entry

	construct func() any
}

// GroupOption configures a group.
type GroupOption func(*Group)

// WithNew sets the zero-argument constructor producing the per-test
// instance. Without it the group runs stateless (no SetUp/TearDown).
func WithNew(construct func() any) GroupOption {
	return func(g *Group) { g.construct = construct }
}

// New constructs the group instance for one test, or returns nil for a
// stateless group.
func (g *Group) New() any {
	if g.construct == nil {
		return nil
	}
	return g.construct()
}

// Test registers a group-bound test. Registration order is the declaration
// order used for sorting.
func (g *Group) Test(name string, handler any, opts ...Option) {
	e := Entry{Name: name, Order: len(g.Entries), Handler: handler}
	for _, opt := range opts {
		opt(&e)
	}
	g.Entries = append(g.Entries, e)
}

// Suite is one loadable unit of tests: the content of a single registered
// test file.
type Suite struct {
	groups  []*Group
	entries []Entry
}

// Group registers a test group in declaration order.
func (s *Suite) Group(name string, opts ...GroupOption) *Group {
	g := &Group{Name: name}
	for _, opt := range opts {
		opt(g)
	}
	s.groups = append(s.groups, g)
	return g
}

// Test registers a standalone test in declaration order.
func (s *Suite) Test(name string, handler any, opts ...Option) {
	e := Entry{Name: name, Order: len(s.entries), Handler: handler}
	for _, opt := range opts {
		opt(&e)
	}
	s.entries = append(s.entries, e)
}

// Groups returns the registered groups in declaration order.
func (s *Suite) Groups() []*Group { return s.groups }

// Tests returns the registered standalone tests in declaration order.
func (s *Suite) Tests() []Entry { return s.entries }
