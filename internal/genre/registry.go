package genre

import (
	"sort"
	"strings"
)

// Registry resolves genre names to profiles. A Registry is read-only once
// built and safe for concurrent use.
type Registry struct {
	profiles map[string]Profile
	fallback Profile
}

// NewRegistry returns a registry holding the built-in genres.
func NewRegistry() *Registry {
	r := &Registry{
		profiles: make(map[string]Profile, len(Genres)),
		fallback: neutral(DefaultName),
	}
	for _, name := range Genres {
		r.profiles[name] = builtin(name)
	}
	return r
}

// Lookup returns a copy of the profile for name. Names are case-insensitive;
// unknown names resolve to the default profile.
func (r *Registry) Lookup(name string) Profile {
	if p, ok := r.profiles[normalize(name)]; ok {
		return p.Clone()
	}
	return r.fallback.Clone()
}

// Known reports whether name is a registered genre.
func (r *Registry) Known(name string) bool {
	_, ok := r.profiles[normalize(name)]
	return ok
}

// Names lists the registered genres: built-ins in display order, then any
// extra genres sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.profiles))
	seen := make(map[string]bool, len(Genres))
	for _, name := range Genres {
		if _, ok := r.profiles[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range r.profiles {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Default returns a copy of the profile used for unknown genres.
func (r *Registry) Default() Profile {
	return r.fallback.Clone()
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
