package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentVersion is the repository format version this build writes.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// Version is a semantic repository format version. Only the major
// component carries compatibility meaning.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
}

// ParseVersion parses "1", "1.0", "1.0.0" or "1.0.0-beta" forms.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	var v Version
	if base, pre, found := strings.Cut(s, "-"); found {
		if pre == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty pre-release", s)
		}
		v.PreRelease = pre
		s = base
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: too many components", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: bad component %q", s, p)
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// String renders the canonical "major.minor.patch[-pre]" form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	return s
}

// Compare returns -1, 0 or 1 ordering v against o. A pre-release sorts
// before its corresponding release; pre-release strings compare
// lexicographically.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	switch {
	case v.PreRelease == o.PreRelease:
		return 0
	case v.PreRelease == "":
		return 1
	case o.PreRelease == "":
		return -1
	case v.PreRelease < o.PreRelease:
		return -1
	default:
		return 1
	}
}

// NewerThan reports whether v is strictly newer than o.
func (v Version) NewerThan(o Version) bool {
	return v.Compare(o) > 0
}

// CompatibleWith reports whether repositories written as v can be read
// by software expecting o. Only the major component must match.
func (v Version) CompatibleWith(o Version) bool {
	return v.Major == o.Major
}
