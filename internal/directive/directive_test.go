package directive

import (
	"testing"

	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/session"
)

func editorSession() *session.Store {
	store := session.New(nil, nil, nil, nil)
	store.SetUser(&session.Profile{ID: 2, Username: "eddy", Role: permission.RoleEditor})
	return store
}

func TestBindPermissionHidesWithoutGrant(t *testing.T) {
	eval := editorSession()
	el := &Element{}
	BindPermission(el, eval, permission.SystemUserManage)
	if !el.Hidden() {
		t.Fatal("editor must not see a user-management element")
	}
}

func TestBindPermissionKeepsVisibleWithGrant(t *testing.T) {
	eval := editorSession()
	el := &Element{}
	BindPermission(el, eval, permission.NovelCommentManage)
	if el.Hidden() {
		t.Fatal("editor should see a comment-management element")
	}
}

func TestBindPermissionAnyOf(t *testing.T) {
	eval := editorSession()
	el := &Element{}
	BindPermission(el, eval, permission.SystemAccess, permission.NovelAccess)
	if el.Hidden() {
		t.Fatal("any-of binding should pass when one permission is held")
	}
}

func TestEmptyBindingHasNoEffect(t *testing.T) {
	eval := editorSession()
	el := &Element{}
	b := BindPermission(el, eval)
	if el.Hidden() {
		t.Fatal("empty binding must leave the element visible")
	}
	b.Update()
	if el.Hidden() {
		t.Fatal("empty update must leave visibility unchanged")
	}
}

func TestUpdateRevealsElement(t *testing.T) {
	eval := editorSession()
	el := &Element{}
	b := BindPermission(el, eval, permission.SystemAccess)
	if !el.Hidden() {
		t.Fatal("element should start hidden")
	}
	b.Update(permission.NovelAccess)
	if el.Hidden() {
		t.Fatal("update to a held permission must reveal the element")
	}
}

func TestBindRole(t *testing.T) {
	eval := editorSession()

	el := &Element{}
	BindRole(el, eval, permission.RoleAdmin)
	if !el.Hidden() {
		t.Fatal("role binding must hide for a non-matching role")
	}

	anyEl := &Element{}
	BindRole(anyEl, eval, permission.RoleAdmin, permission.RoleEditor)
	if anyEl.Hidden() {
		t.Fatal("role binding should pass when any role matches")
	}
}

func TestAdminSeesEverything(t *testing.T) {
	store := session.New(nil, nil, nil, nil)
	store.SetUser(&session.Profile{ID: 1, Username: "admin", Role: permission.RoleAdmin})
	for _, p := range permission.All() {
		el := &Element{}
		BindPermission(el, store, p)
		if el.Hidden() {
			t.Fatalf("admin element hidden for %q", p)
		}
	}
}

func TestMenuPrunesDeniedSubtrees(t *testing.T) {
	eval := editorSession()
	admin, ok := guard.NewTable(guard.DefaultRoutes()).Lookup("/admin")
	if !ok {
		t.Fatal("admin route missing")
	}
	items := Menu("/admin", admin.Children, eval)

	var titles []string
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	for _, title := range titles {
		if title == "System Management" {
			t.Fatal("editor menu must not contain the system area")
		}
	}

	var novel *MenuItem
	for i := range items {
		if items[i].Title == "Novel Management" {
			novel = &items[i]
		}
	}
	if novel == nil {
		t.Fatalf("editor menu missing novel area, got %v", titles)
	}
	if novel.Path != "/admin/novel" {
		t.Fatalf("unexpected menu path %q", novel.Path)
	}
	for _, child := range novel.Children {
		if child.Title == "Data Statistics" {
			t.Fatal("editor menu must not contain statistics")
		}
	}
	if len(novel.Children) != 2 {
		t.Fatalf("expected 2 visible novel entries, got %d", len(novel.Children))
	}
}
