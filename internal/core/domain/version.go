package domain

import (
	"fmt"
	"regexp"
)

// reVersion matches corpus version strings, e.g. "corpus-v2026.02.0".
var reVersion = regexp.MustCompile(`^corpus-v([0-9]{4})\.([0-9]{2})\.([0-9]+)$`)

// ValidVersion reports whether v follows the corpus-vYYYY.MM.patch
// pattern. Each version's output directory is immutable once published.
func ValidVersion(v string) bool {
	return reVersion.MatchString(v)
}

// CheckVersion returns an ErrBuild-wrapped error for malformed version
// strings.
func CheckVersion(v string) error {
	if !ValidVersion(v) {
		return fmt.Errorf("%w: version %q does not match corpus-vYYYY.MM.patch", ErrBuild, v)
	}
	return nil
}
