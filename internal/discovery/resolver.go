package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// maxPackageParentDepth bounds the upward walk when looking for the nearest
// enclosing package marker.
const maxPackageParentDepth = 2

// SearchRoot is a resolved directory to look for test files in, tagged with
// its nearest enclosing package (if any).
type SearchRoot struct {
	Dir         string
	PackageRoot string // "" when the root is outside any package
	PackageName string
}

// IsPackage reports whether the root sits inside a suite package.
func (r SearchRoot) IsPackage() bool { return r.PackageRoot != "" }

// Resolution is the resolver's answer for one specifier: the set of search
// roots (possibly empty — the matcher surfaces that) and the file component
// after filesystem disambiguation. File may differ from the parsed one: a
// bare directory component can turn out to name a file, and a trailing file
// component can turn out to name a directory.
type Resolution struct {
	Roots []SearchRoot
	File  string
}

// Resolver locates search roots for parsed specifiers. All filesystem
// access is read-only.
type Resolver struct{}

// Resolve maps the parsed directory component onto concrete search roots:
// literal subdirectory first, then glob expansion, then promotion of a bare
// component to a file name, then the conventional tests subdirectory.
func (Resolver) Resolve(base string, sp Specifier) Resolution {
	// The trailing component of a multi-component specifier is parsed as a
	// file, but it may name a directory: "devices/nrf" selects every test
	// file under devices/nrf.
	if sp.File != "" && sp.Method == "" {
		dir := filepath.Join(base, filepath.FromSlash(sp.Dir), sp.File)
		if filepath.IsAbs(sp.Dir) {
			dir = filepath.Join(filepath.FromSlash(sp.Dir), sp.File)
		}
		if isDir(dir) {
			return Resolution{Roots: searchRoots(dir)}
		}
	}

	if sp.Dir == "" {
		return Resolution{Roots: searchRoots(base), File: sp.File}
	}

	target := sp.Dir
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, filepath.FromSlash(sp.Dir))
	}

	if isDir(target) {
		return Resolution{Roots: searchRoots(target), File: sp.File}
	}

	if matches, err := filepath.Glob(target); err == nil && len(matches) > 0 {
		var dirs []string
		for _, m := range matches {
			if isDir(m) {
				dirs = append(dirs, m)
			}
		}
		if len(dirs) > 0 {
			sort.Strings(dirs)
			var roots []SearchRoot
			for _, d := range dirs {
				roots = append(roots, searchRoots(d)...)
			}
			return Resolution{Roots: roots, File: sp.File}
		}
	}

	// The bare component may name a file rather than a directory.
	if sp.File == "" {
		parent, name := filepath.Dir(target), filepath.Base(target)
		if dir, file, ok := findTestFile(parent, name); ok {
			return Resolution{Roots: searchRoots(dir), File: file}
		}
	}

	if tests := filepath.Join(base, testsDirName); isDir(tests) {
		return Resolution{Roots: searchRoots(tests), File: sp.File}
	}

	return Resolution{File: sp.File}
}

// findTestFile checks for name (suffix appended when missing) in dir and in
// dir/tests, mirroring the conventional fallbacks.
func findTestFile(dir, name string) (string, string, bool) {
	stem := name
	filename := stem + testFileSuffix
	if filepath.Ext(name) == testFileSuffix {
		filename = name
		stem = name[:len(name)-len(testFileSuffix)]
	}
	if isFile(filepath.Join(dir, filename)) {
		return dir, stem, true
	}
	if sub := filepath.Join(dir, testsDirName); isFile(filepath.Join(sub, filename)) {
		return sub, stem, true
	}
	return "", "", false
}

func searchRoots(dir string) []SearchRoot {
	root := SearchRoot{Dir: dir}
	if pkgRoot, ok := nearestPackage(dir); ok {
		root.PackageRoot = pkgRoot
		root.PackageName = packageName(pkgRoot)
	}
	return []SearchRoot{root}
}

// nearestPackage walks up from dir, at most maxPackageParentDepth levels,
// looking for the package marker file.
func nearestPackage(dir string) (string, bool) {
	current := dir
	for depth := 0; depth < maxPackageParentDepth; depth++ {
		if isPackageDir(current) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", false
}

func isPackageDir(dir string) bool {
	return isDir(dir) && isFile(filepath.Join(dir, packageMarkerFile))
}

// packageName is the marker-derived package name: the directory base name
// unless the marker body overrides it.
func packageName(pkgRoot string) string {
	name := filepath.Base(pkgRoot)
	data, err := os.ReadFile(filepath.Join(pkgRoot, packageMarkerFile))
	if err != nil {
		return name
	}
	var meta struct {
		Package string `yaml:"package"`
	}
	if err := yaml.Unmarshal(data, &meta); err == nil && meta.Package != "" {
		return meta.Package
	}
	return name
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
