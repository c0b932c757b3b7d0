package discovery

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"bletest/domain"
	"bletest/suite"
)

// Unit is a loaded suite: the executable content of one matched test file.
type Unit struct {
	ImportID string // qualified import identifier (cache key)
	Module   string // file stem, used as the test-name prefix
	Suite    *suite.Suite
}

// Loader builds suites from the registry, with a run-scoped cache: loading
// the same import identifier twice returns the cached unit, so builder side
// effects run exactly once per run. The cache is append-only; create a new
// Loader per run.
type Loader struct {
	reg    *suite.Registry
	cache  map[string]*Unit
	logger *slog.Logger
}

// NewLoader returns a Loader with an empty cache.
func NewLoader(reg *suite.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{reg: reg, cache: make(map[string]*Unit), logger: logger}
}

// Load resolves a candidate to its registered suite. A failure (no
// registration, builder error or panic) is a LoadError isolated to this
// candidate.
func (l *Loader) Load(c Candidate) (*Unit, error) {
	id := importID(c)
	if u, ok := l.cache[id]; ok {
		l.logger.Debug("suite already loaded", "import_id", id)
		return u, nil
	}

	s, err := l.build(id)
	if err != nil {
		return nil, &domain.LoadError{ImportID: id, Err: err}
	}

	u := &Unit{
		ImportID: id,
		Module:   strings.TrimSuffix(c.Filename, testFileSuffix),
		Suite:    s,
	}
	l.cache[id] = u
	l.logger.Debug("loaded suite", "import_id", id)
	return u, nil
}

func (l *Loader) build(id string) (s *suite.Suite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while building suite: %v", r)
		}
	}()
	return l.reg.Build(id)
}

// importID computes the qualified import identifier for a candidate:
// package-qualified (package name, relative sub-path, file stem, dot-joined)
// inside a package, the bare file stem otherwise.
func importID(c Candidate) string {
	stem := strings.TrimSuffix(c.Filename, testFileSuffix)
	if !c.Root.IsPackage() {
		return stem
	}
	parts := []string{c.Root.PackageName}
	if rel, err := filepath.Rel(c.Root.PackageRoot, c.Root.Dir); err == nil && rel != "." {
		parts = append(parts, strings.Split(filepath.ToSlash(rel), "/")...)
	}
	return strings.Join(append(parts, stem), ".")
}
