package models

import "testing"

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Admin ")
	if !ok || role != RoleAdmin {
		t.Fatalf("expected admin role, got %q ok=%v", role, ok)
	}

	if _, ok := ParseRole("superuser"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestRoleMembership(t *testing.T) {
	if !RoleAdmin.In(RoleAdmin) {
		t.Fatal("admin must be allowed in an admin-only set")
	}
	if RoleUser.In(RoleAdmin) {
		t.Fatal("user must not be allowed in an admin-only set")
	}
	if !RoleUser.In(RoleUser, RoleAdmin) {
		t.Fatal("user must be allowed when the set includes user")
	}
}
