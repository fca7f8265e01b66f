package archive

import (
	"path"
	"strings"
)

// Filter decides which files of the project tree are shipped.
//
// A file is left out when its bare name equals one of Implicit or Exclude,
// or when its slash separated relative path equals or starts with one of
// Exclude. Prefixes are literal: "build" also drops "build.log".
type Filter struct {
	Exclude  []string
	Implicit []string // always excluded by bare name (config file, the archive itself)
}

// Excluded reports whether the file at relPath stays out of the archive
func (f Filter) Excluded(relPath string) bool {
	name := path.Base(relPath)

	for _, implicit := range f.Implicit {
		if name == implicit {
			return true
		}
	}

	for _, pattern := range f.Exclude {
		if name == pattern || relPath == pattern || strings.HasPrefix(relPath, pattern) {
			return true
		}
	}

	return false
}

// skipDir reports whether every file below the directory at relPath is
// excluded by the prefix rule, so the walk does not need to descend.
func (f Filter) skipDir(relPath string) bool {
	for _, pattern := range f.Exclude {
		if strings.HasPrefix(relPath, pattern) {
			return true
		}
	}
	return false
}
