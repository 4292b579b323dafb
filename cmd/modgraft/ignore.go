package main

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// loadIgnoreMatcher reads .modgraftignore from baseDir, supplementing
// spec.md §4/§4.2's caller-supplied ignored set with a file-based
// exclude list a repo can commit instead of enumerating every specifier
// at the config/flag level. A missing file means nothing is ignored.
func loadIgnoreMatcher(baseDir string) (*ignore.GitIgnore, error) {
	path := filepath.Join(baseDir, ".modgraftignore")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ignore.CompileIgnoreLines(strings.Split(string(content), "\n")...), nil
}

// filterIgnored drops any path under baseDir that the ignore matcher
// excludes, comparing the path relative to baseDir the way a
// .gitignore-style matcher expects.
func filterIgnored(baseDir string, matcher *ignore.GitIgnore, paths []string) []string {
	if matcher == nil {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(baseDir, p)
		if err != nil {
			out = append(out, p)
			continue
		}
		if matcher.MatchesPath(rel) {
			continue
		}
		out = append(out, p)
	}
	return out
}
