package discovery

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"

	"bletest/ble"
	"bletest/suite"
	"bletest/testctx"
)

// Test is one extracted, runnable test item.
type Test struct {
	Name        string // qualified: module.[Group.]name
	Description string
	Group       *suite.Group        // non-nil for group-bound tests
	Run         suite.TestFunc      // standalone entry point
	Method      suite.GroupTestFunc // group-bound entry point
}

// IsGroupTest reports whether the item is bound to a group instance.
func (t Test) IsGroupTest() bool { return t.Group != nil }

// Extractor turns a loaded unit into an ordered test list.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract selects the unit's tests matching the method pattern: group tests
// first (groups in declaration order, entries sorted by declaration index),
// then standalone tests sorted by declaration index. Entries that are
// neither explicitly tagged nor named by the test_ convention are ignored;
// entries whose handler lacks the test signature are skipped with a
// warning, never an error.
func (e *Extractor) Extract(u *Unit, pattern string) []Test {
	var tests []Test

	for _, g := range u.Suite.Groups() {
		entries := make([]suite.Entry, 0, len(g.Entries))
		for _, entry := range g.Entries {
			if !isTestEntry(entry) {
				continue
			}
			if !matchEntry(pattern, entry.Name, g.Name) {
				continue
			}
			entries = append(entries, entry)
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

		for _, entry := range entries {
			method, ok := asGroupTestFunc(entry.Handler)
			if !ok {
				e.logger.Warn("skipping group entry: handler does not implement the test signature",
					"group", g.Name, "entry", entry.Name)
				continue
			}
			tests = append(tests, Test{
				Name:        u.Module + "." + g.Name + "." + entry.Name,
				Description: entryDescription(entry),
				Group:       g,
				Method:      method,
			})
		}
	}

	standalone := make([]suite.Entry, 0, len(u.Suite.Tests()))
	for _, entry := range u.Suite.Tests() {
		if !isTestEntry(entry) {
			continue
		}
		if !matchWildcard(pattern, entry.Name) {
			continue
		}
		standalone = append(standalone, entry)
	}
	sort.SliceStable(standalone, func(i, j int) bool { return standalone[i].Order < standalone[j].Order })

	for _, entry := range standalone {
		fn, ok := asTestFunc(entry.Handler)
		if !ok {
			e.logger.Warn("skipping entry: handler does not implement the test signature",
				"module", u.Module, "entry", entry.Name)
			continue
		}
		tests = append(tests, Test{
			Name:        u.Module + "." + entry.Name,
			Description: entryDescription(entry),
			Run:         fn,
		})
	}

	return tests
}

func isTestEntry(entry suite.Entry) bool {
	return entry.Tagged || strings.HasPrefix(entry.Name, testFilePrefix)
}

func entryDescription(entry suite.Entry) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Name
}

// matchEntry matches the pattern against the bare entry name and against
// its Group.entry form, so a dotted method pattern can select one class
// method.
func matchEntry(pattern, name, group string) bool {
	return matchWildcard(pattern, name) || matchWildcard(pattern, group+"."+name)
}

func matchWildcard(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

func asTestFunc(handler any) (suite.TestFunc, bool) {
	switch fn := handler.(type) {
	case suite.TestFunc:
		return fn, true
	case func(context.Context, ble.Device, *testctx.Context) error:
		return fn, true
	}
	return nil, false
}

func asGroupTestFunc(handler any) (suite.GroupTestFunc, bool) {
	switch fn := handler.(type) {
	case suite.GroupTestFunc:
		return fn, true
	case func(context.Context, any, ble.Device, *testctx.Context) error:
		return fn, true
	}
	return nil, false
}
