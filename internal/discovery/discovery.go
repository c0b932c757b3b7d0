package discovery

import (
	"log/slog"
	"sort"

	"bletest/domain"
	"bletest/suite"
)

// ModuleTests is one module's worth of discovered tests, in execution order.
type ModuleTests struct {
	Module string
	Tests  []Test
}

// Engine wires the discovery pipeline for one run. The loader cache it
// carries is the run-scoped module cache; build a new Engine per run.
type Engine struct {
	root      string
	resolver  Resolver
	matcher   Matcher
	loader    *Loader
	extractor *Extractor
	logger    *slog.Logger
}

// NewEngine returns a discovery engine rooted at the given base directory.
func NewEngine(root string, reg *suite.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		root:      root,
		loader:    NewLoader(reg, logger),
		extractor: NewExtractor(logger),
		logger:    logger,
	}
}

// DiscoverSpecifier resolves one specifier into modules of ordered tests,
// sorted by module name. A specifier with zero matching files yields a
// DiscoveryError; a module that fails to load yields a LoadError in errs
// while the remaining candidates are still processed.
func (e *Engine) DiscoverSpecifier(raw string) (mods []ModuleTests, errs []error) {
	sp := ParseSpecifier(raw)
	e.logger.Debug("parsed specifier",
		"specifier", raw, "dir", sp.Dir, "file", sp.File, "method", sp.Method, "wildcard", sp.Wildcard)

	res := e.resolver.Resolve(e.root, sp)

	cands, wildcardConsumed := e.matcher.Match(res.Roots, res.File, sp.Wildcard, sp.Method)
	if len(cands) == 0 {
		return nil, []error{&domain.DiscoveryError{Specifier: raw}}
	}

	method := sp.Method
	if method == "" && sp.Wildcard != "" && !wildcardConsumed {
		method = sp.Wildcard
	}

	for _, cand := range cands {
		unit, err := e.loader.Load(cand)
		if err != nil {
			e.logger.Warn("module failed to load, continuing with remaining files", "err", err)
			errs = append(errs, err)
			continue
		}
		mods = append(mods, ModuleTests{
			Module: unit.Module,
			Tests:  e.extractor.Extract(unit, method),
		})
	}

	sort.SliceStable(mods, func(i, j int) bool { return mods[i].Module < mods[j].Module })
	return mods, errs
}

// Discover resolves all specifiers in order. Errors are collected per
// specifier and never abort the remaining ones.
func (e *Engine) Discover(specifiers []string) ([]ModuleTests, []error) {
	if len(specifiers) == 0 {
		specifiers = []string{""}
	}
	var all []ModuleTests
	var errs []error
	for _, raw := range specifiers {
		mods, specErrs := e.DiscoverSpecifier(raw)
		all = append(all, mods...)
		errs = append(errs, specErrs...)
	}
	return all, errs
}
