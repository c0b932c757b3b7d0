package discovery

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Candidate is one matched test file within a search root.
type Candidate struct {
	Root     SearchRoot
	Filename string
}

// Matcher selects candidate test files inside search roots.
type Matcher struct{}

// Match returns the candidate files for the given file component, in root
// order with filenames sorted per root.
//
// With an explicit file, the match is exact (suffix appended when missing).
// Without one, the pending wildcard — usable as a filename glob only while
// no method was parsed — or the test_* convention selects files; when
// nothing matches, each root's tests subfolder is consulted, and as a last
// resort the wildcard is abandoned in favor of the plain convention so the
// caller can reinterpret it as a method pattern. wildcardConsumed reports
// whether the wildcard did select files.
func (Matcher) Match(roots []SearchRoot, file, wildcard, method string) (cands []Candidate, wildcardConsumed bool) {
	if file != "" {
		filename := file
		if !strings.HasSuffix(filename, testFileSuffix) {
			filename += testFileSuffix
		}
		for _, root := range roots {
			if isFile(filepath.Join(root.Dir, filename)) {
				cands = append(cands, Candidate{Root: root, Filename: filename})
			}
		}
		return cands, false
	}

	fileWildcard := ""
	if method == "" {
		fileWildcard = wildcard
	}

	pattern := fileWildcard
	if pattern == "" {
		pattern = testFilePrefix + "*"
	}

	cands = listMatching(roots, pattern)
	if len(cands) == 0 {
		if testsRoots := testsSubRoots(roots); len(testsRoots) > 0 {
			roots = testsRoots
			cands = listMatching(roots, pattern)
		}
		if len(cands) == 0 && fileWildcard != "" {
			// The wildcard matched no file; fall back to the naming
			// convention and leave the wildcard for method matching.
			return listMatching(roots, testFilePrefix+"*"), false
		}
	}
	return cands, fileWildcard != "" && len(cands) > 0
}

// listMatching lists the files in each root whose name carries the test
// suffix and matches the pattern.
func listMatching(roots []SearchRoot, pattern string) []Candidate {
	var cands []Candidate
	for _, root := range roots {
		entries, err := os.ReadDir(root.Dir)
		if err != nil {
			continue
		}
		var names []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), testFileSuffix) {
				continue
			}
			if ok, err := path.Match(pattern, entry.Name()); err == nil && ok {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			cands = append(cands, Candidate{Root: root, Filename: name})
		}
	}
	return cands
}

// testsSubRoots maps each root to its existing tests subdirectory.
func testsSubRoots(roots []SearchRoot) []SearchRoot {
	var out []SearchRoot
	for _, root := range roots {
		sub := filepath.Join(root.Dir, testsDirName)
		if isDir(sub) {
			out = append(out, searchRoots(sub)...)
		}
	}
	return out
}
