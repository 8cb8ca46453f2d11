package permission

import "testing"

func TestAdminIsSupersetOfEveryRole(t *testing.T) {
	admin := make(map[string]struct{})
	for _, p := range ForRole(RoleAdmin) {
		admin[p] = struct{}{}
	}
	for _, role := range []Role{RoleEditor, RoleUser} {
		for _, p := range ForRole(role) {
			if _, ok := admin[p]; !ok {
				t.Fatalf("admin set missing %q granted to %s", p, role)
			}
		}
	}
}

func TestAllCoversEveryGrant(t *testing.T) {
	catalog := make(map[string]struct{})
	for _, p := range All() {
		catalog[p] = struct{}{}
	}
	for role, grants := range rolePermissions {
		for _, p := range grants {
			if _, ok := catalog[p]; !ok {
				t.Fatalf("grant %q for role %s not in catalog", p, role)
			}
		}
	}
}

func TestForRoleUnknown(t *testing.T) {
	if got := ForRole(Role("superuser")); got != nil {
		t.Fatalf("expected nil set for unknown role, got %v", got)
	}
	if KnownRole(Role("superuser")) {
		t.Fatal("superuser should not be a known role")
	}
}

func TestForRoleReturnsCopy(t *testing.T) {
	grants := ForRole(RoleUser)
	grants[0] = "tampered"
	if ForRole(RoleUser)[0] == "tampered" {
		t.Fatal("ForRole must not expose the backing array")
	}
}

func TestDisplayNameFallsBackToIdentifier(t *testing.T) {
	if got := DisplayName(SystemUserManage); got != "User management" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := DisplayName("system:unknown:thing"); got != "system:unknown:thing" {
		t.Fatalf("expected identifier fallback, got %q", got)
	}
}

func TestCategoriesPartitionCatalog(t *testing.T) {
	total := 0
	for _, ids := range Categories() {
		total += len(ids)
	}
	if total != len(All()) {
		t.Fatalf("categories hold %d permissions, catalog holds %d", total, len(All()))
	}
}
