// Package wikidump streams articles out of compressed wikipedia dump
// files.
//
// The dumps are available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// A dump acquisition step is expected to have left files named like
// enwiki-20240501-pages-articles.xml.bz2 in a directory; everything
// here works from those.
package wikidump

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var langRE *regexp.Regexp

func init() {
	langRE = regexp.MustCompile(`^([a-z]+)wiki-`)
}

// A DumpFile is one discovered dump with the language edition it
// covers.
type DumpFile struct {
	Path string
	Lang string
}

// LangFromPath gets the language code from a dump filename prefix,
// falling back to "en" when the name doesn't follow the convention.
func LangFromPath(path string) string {
	m := langRE.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "en"
	}
	return m[1]
}

// Discover finds all the .bz2 dump files in a directory, sorted by
// name.
func Discover(dir string) ([]DumpFile, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.bz2"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	rv := make([]DumpFile, 0, len(paths))
	for _, p := range paths {
		rv = append(rv, DumpFile{Path: p, Lang: LangFromPath(p)})
	}
	return rv, nil
}
