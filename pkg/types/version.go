package types

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is a file format version such as "0.1" or "0.2".
type Version struct{ v string }

// ParseVersion validates a dotted numeric version string.
func ParseVersion(s string) (Version, error) {
	if !semver.IsValid("v"+s) || semver.Prerelease("v"+s) != "" || semver.Build("v"+s) != "" {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	return Version{v: s}, nil
}

// MustParseVersion panics if s is not a valid version.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	return semver.Compare("v"+v.v, "v"+o.v)
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

func (v Version) String() string { return v.v }
