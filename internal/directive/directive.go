// Package directive binds element visibility to permission or role
// predicates. A binding is evaluated when attached and re-evaluated when its
// bound value changes; it does not react to session changes on its own,
// matching the original behaviour. Hiding is purely presentational, the
// element stays in its tree.
package directive

import (
	"strings"

	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/permission"
)

// Evaluator is the session query surface the directives read.
type Evaluator interface {
	HasPermission(id string) bool
	HasAnyPermission(ids ...string) bool
	Role() permission.Role
}

// Element is a UI node whose visibility a binding controls.
type Element struct {
	hidden bool
}

// Hidden reports whether the element is currently hidden.
func (e *Element) Hidden() bool {
	return e.hidden
}

type kind int

const (
	kindPermission kind = iota
	kindRole
)

// Binding ties an element to a permission or role predicate.
type Binding struct {
	el    *Element
	eval  Evaluator
	kind  kind
	terms []string
}

// BindPermission attaches a permission predicate: one term checks that
// permission, several check for any of them, none leaves the element alone.
// The predicate is evaluated immediately.
func BindPermission(el *Element, eval Evaluator, terms ...string) *Binding {
	b := &Binding{el: el, eval: eval, kind: kindPermission, terms: terms}
	b.mount()
	return b
}

// BindRole attaches a role predicate, same matching rules as BindPermission.
func BindRole(el *Element, eval Evaluator, roles ...permission.Role) *Binding {
	terms := make([]string, len(roles))
	for i, r := range roles {
		terms[i] = string(r)
	}
	b := &Binding{el: el, eval: eval, kind: kindRole, terms: terms}
	b.mount()
	return b
}

// Update replaces the bound value and re-evaluates. An empty value has no
// effect; the element keeps its current visibility.
func (b *Binding) Update(terms ...string) {
	b.terms = terms
	if len(terms) == 0 {
		return
	}
	b.el.hidden = !b.satisfied()
}

// mount only ever hides; an element starts visible and a later Update can
// reveal it again.
func (b *Binding) mount() {
	if len(b.terms) == 0 {
		return
	}
	if !b.satisfied() {
		b.el.hidden = true
	}
}

func (b *Binding) satisfied() bool {
	switch b.kind {
	case kindRole:
		current := string(b.eval.Role())
		for _, term := range b.terms {
			if term == current {
				return true
			}
		}
		return false
	default:
		if len(b.terms) == 1 {
			return b.eval.HasPermission(b.terms[0])
		}
		return b.eval.HasAnyPermission(b.terms...)
	}
}

// MenuItem is a navigation entry surviving permission filtering.
type MenuItem struct {
	Path     string     `json:"path"`
	Title    string     `json:"title"`
	Children []MenuItem `json:"children,omitempty"`
}

// Menu filters a route tree down to the entries visible to the session,
// joining relative child paths onto base. A hidden parent prunes its whole
// subtree.
func Menu(base string, routes []guard.Route, eval Evaluator) []MenuItem {
	var items []MenuItem
	for _, r := range routes {
		if r.RequiredPermission != "" && !eval.HasPermission(r.RequiredPermission) {
			continue
		}
		path := r.Path
		if !strings.HasPrefix(path, "/") {
			path = strings.TrimSuffix(base, "/") + "/" + path
		}
		items = append(items, MenuItem{
			Path:     path,
			Title:    r.Title,
			Children: Menu(path, r.Children, eval),
		})
	}
	return items
}
