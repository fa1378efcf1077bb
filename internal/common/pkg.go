package common

import (
	"path"
	"regexp"
	"strings"
)

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

var aliasReplacer = strings.NewReplacer(".", "_", "-", "_")

// PkgAlias guesses the package name for an import path: the last path element,
// skipping a major version suffix, with '.' and '-' replaced by '_'.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if versionSuffix.MatchString(base) && path.Dir(pkgPath) != "." {
		base = path.Base(path.Dir(pkgPath))
	}

	return aliasReplacer.Replace(base)
}
