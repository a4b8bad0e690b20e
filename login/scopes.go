package login

import (
	"sort"
	"strings"
)

// Scopes is a set of named permissions attached to an access token.
type Scopes map[string]struct{}

func NewScopes(names ...string) Scopes {
	s := make(Scopes, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// ParseScopes reads the comma separated form used on the wire.
func ParseScopes(raw string) Scopes {
	s := NewScopes()
	for _, name := range strings.Split(raw, ",") {
		s.Add(name)
	}
	return s
}

// Add ignores blank names.
func (s Scopes) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

func (s Scopes) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// HasAll reports whether every one of names is in the set.
func (s Scopes) HasAll(names ...string) bool {
	for _, name := range names {
		if !s.Has(name) {
			return false
		}
	}
	return true
}

func (s Scopes) Len() int {
	return len(s)
}

// List returns the scopes in sorted order.
func (s Scopes) List() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s Scopes) String() string {
	return strings.Join(s.List(), ",")
}
