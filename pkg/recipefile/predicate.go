// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"strings"

	"recipe-cli/pkg/platform"
)

// OSPredicate is a set of operating systems a variant applies to.
// The zero value is unconditional and matches every system.
type OSPredicate uint16

// NewOSPredicate builds a predicate from attribute names such as "unix" or "macos".
func NewOSPredicate(names ...string) (OSPredicate, error) {
	var p OSPredicate
	for _, name := range names {
		systems, err := platform.Expand(name)
		if err != nil {
			return 0, err
		}
		for _, o := range systems {
			p |= osBit(o)
		}
	}
	return p, nil
}

// IsZero reports whether the predicate is unconditional.
func (p OSPredicate) IsZero() bool { return p == 0 }

// Matches reports whether the predicate admits the given system.
// An unconditional predicate matches everything, including unknown systems.
func (p OSPredicate) Matches(o platform.OS) bool {
	if p.IsZero() {
		return true
	}
	return p&osBit(o) != 0
}

// Systems lists the concrete systems admitted by a conditional predicate.
func (p OSPredicate) Systems() []platform.OS {
	var out []platform.OS
	for _, o := range platform.Known() {
		if p&osBit(o) != 0 {
			out = append(out, o)
		}
	}
	return out
}

// String renders the predicate as attribute text, folding the unix family.
func (p OSPredicate) String() string {
	if p.IsZero() {
		return ""
	}
	unix, _ := NewOSPredicate(platform.FamilyUnix)
	var names []string
	rest := p
	if p&unix == unix {
		names = append(names, platform.FamilyUnix)
		rest &^= unix
	}
	for _, o := range rest.Systems() {
		names = append(names, o.String())
	}
	return strings.Join(names, ", ")
}

func osBit(o platform.OS) OSPredicate {
	for i, k := range platform.Known() {
		if k == o {
			return 1 << uint(i)
		}
	}
	return 0
}
