package reference

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchPathEntry is one element of a colon-separated search path:
// either a named binding (name=path) or a bare directory.
type SearchPathEntry struct {
	Name string
	Path string
}

func (e SearchPathEntry) IsNamed() bool {
	return e.Name != ""
}

// SearchPath is the parsed value of the search path environment variable
type SearchPath struct {
	Variable string
	Entries  []SearchPathEntry
}

// ParseSearchPath splits value on ':' into entries. URL values such as
// nixpkgs=https://host/x.tar.gz are kept whole.
func ParseSearchPath(variable, value string) SearchPath {
	sp := SearchPath{Variable: variable}

	var parts []string
	for _, part := range strings.Split(value, ":") {
		if len(parts) > 0 && strings.HasPrefix(part, "//") && endsWithScheme(parts[len(parts)-1]) {
			parts[len(parts)-1] += ":" + part
			continue
		}
		parts = append(parts, part)
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name, path, ok := strings.Cut(part, "="); ok {
			sp.Entries = append(sp.Entries, SearchPathEntry{Name: name, Path: path})
			continue
		}
		sp.Entries = append(sp.Entries, SearchPathEntry{Path: part})
	}
	return sp
}

func endsWithScheme(s string) bool {
	if _, after, ok := strings.Cut(s, "="); ok {
		s = after
	}
	_, known := schemes[strings.ToLower(s)]
	return known
}

// Lookup resolves name against the search path. An explicit binding, written
// name=path or path=name, wins over any bare directory that happens to
// contain name.
func (sp SearchPath) Lookup(name string) (string, error) {
	if len(sp.Entries) == 0 {
		return "", &SearchPathNotFoundError{Name: name, Variable: sp.Variable, Unset: true}
	}

	for _, entry := range sp.Entries {
		if !entry.IsNamed() {
			continue
		}
		if entry.Name == name {
			return entry.Path, nil
		}
		// path=name binding, e.g. "/b=pkgs"
		if entry.Path == name && isPathLike(entry.Name) {
			return entry.Name, nil
		}
	}

	for _, entry := range sp.Entries {
		if entry.IsNamed() {
			continue
		}
		candidate := filepath.Join(entry.Path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &SearchPathNotFoundError{Name: name, Variable: sp.Variable}
}

func isPathLike(s string) bool {
	return filepath.IsAbs(s) || strings.HasPrefix(s, ".") || strings.Contains(s, SchemeDelimiter)
}
