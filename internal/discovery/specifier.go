// Package discovery turns user specifiers into an ordered list of runnable
// tests: parse the specifier, resolve search directories, match test files,
// load registered suites and extract their test items.
package discovery

import "strings"

const (
	// testFilePrefix and testFileSuffix form the test-file naming
	// convention: test_<name>.go.
	testFilePrefix = "test_"
	testFileSuffix = ".go"

	// packageMarkerFile marks a directory as a suite package. Its optional
	// YAML body may override the package name.
	packageMarkerFile = "suite.yml"

	// testsDirName is the conventional subdirectory consulted when a root
	// has no matching files of its own.
	testsDirName = "tests"
)

// Specifier is the parsed form of a user test specifier. Parsing is pure;
// ambiguity (a bare component that could be a directory or a file) is left
// to the resolver, which has filesystem access.
type Specifier struct {
	Dir      string // directory component, possibly a glob
	File     string // file component, suffix stripped
	Method   string // method name or pattern
	Wildcard string // trailing wildcard component: file glob first, method pattern second
}

// ParseSpecifier splits a raw specifier into its components. The empty
// specifier and the literal "all" select every conventionally named test
// file under the base root. Malformed input never errors; it just yields
// fewer components for the later stages to work with.
func ParseSpecifier(raw string) Specifier {
	if raw == "" || raw == "all" {
		return Specifier{}
	}

	abs := strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, `\`)
	parts := splitPath(raw)
	if len(parts) == 0 {
		return Specifier{}
	}

	var sp Specifier
	if strings.ContainsRune(parts[len(parts)-1], '*') {
		sp.Wildcard = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	switch len(parts) {
	case 0:
		// Wildcard-only specifier, e.g. "*_1" or "test_c*".
	case 1:
		if file, method, ok := splitFileMethod(parts[0]); ok {
			sp.File, sp.Method = file, method
		} else {
			sp.Dir = parts[0]
		}
	default:
		sp.Dir = strings.Join(parts[:len(parts)-1], "/")
		if file, method, ok := splitFileMethod(parts[len(parts)-1]); ok {
			sp.File, sp.Method = file, method
		} else {
			sp.File = parts[len(parts)-1]
		}
	}

	if abs && sp.Dir != "" {
		sp.Dir = "/" + sp.Dir
	}
	return sp
}

func splitPath(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// splitFileMethod interprets one component as a file reference. A trailing
// test-file suffix wins over dot-splitting, so "test_file.go" is a file and
// "test_file.test_fn" is a file plus method pattern. A dotless component is
// not recognizably a file; ok is false and the caller treats it as a
// directory (the resolver may still promote it to a file later).
func splitFileMethod(component string) (file, method string, ok bool) {
	if strings.HasSuffix(component, testFileSuffix) {
		return strings.TrimSuffix(component, testFileSuffix), "", true
	}
	if i := strings.Index(component, "."); i >= 0 {
		return component[:i], component[i+1:], true
	}
	return "", "", false
}
