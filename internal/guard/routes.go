package guard

import "strings"

// Route is a static navigation tree node. RequiredPermission empty means the
// route is unguarded once the login check passes. The tree is read-only at
// runtime.
type Route struct {
	Path               string
	Title              string
	RequiredPermission string
	Children           []Route
}

// Table indexes a route tree by absolute path.
type Table struct {
	roots  []Route
	byPath map[string]Route
}

// NewTable flattens the tree, joining child paths onto their parents.
func NewTable(roots []Route) *Table {
	t := &Table{roots: roots, byPath: make(map[string]Route)}
	for _, r := range roots {
		t.index("", r)
	}
	return t
}

func (t *Table) index(prefix string, r Route) {
	full := joinPath(prefix, r.Path)
	indexed := r
	indexed.Path = full
	t.byPath[full] = indexed
	for _, child := range r.Children {
		t.index(full, child)
	}
}

// Lookup resolves an absolute path to its route descriptor.
func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.byPath[path]
	return r, ok
}

// Roots returns the top-level routes of the tree.
func (t *Table) Roots() []Route {
	return t.roots
}

func joinPath(prefix, path string) string {
	if prefix == "" || strings.HasPrefix(path, "/") {
		if path == "" {
			return "/"
		}
		if !strings.HasPrefix(path, "/") {
			return "/" + path
		}
		return path
	}
	return strings.TrimSuffix(prefix, "/") + "/" + path
}
