package auth

import (
	"context"
	"testing"
)

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleStoreAdministrator, PermContentDelete, true},
		{RoleManager, PermContentPublish, true},
		{RoleManager, PermContentDelete, false},
		{RoleEditor, PermContentEdit, true},
		{RoleEditor, PermContentPublish, false},
		{RoleCashier, PermSalesCreate, true},
		{RoleCashier, PermContentEdit, false},
		{RoleViewer, PermSalesView, true},
		{RoleViewer, PermContentImport, false},
	}
	for _, tc := range cases {
		if got := tc.role.Has(tc.permission); got != tc.want {
			t.Errorf("%s.Has(%s) = %v, want %v", tc.role, tc.permission, got, tc.want)
		}
	}
}

func TestUnknownRoleFallsBackToViewer(t *testing.T) {
	unknown := Role("Intern")
	if unknown.Has(PermContentEdit) {
		t.Errorf("unknown role must not edit")
	}
	if !unknown.Has(PermSalesView) {
		t.Errorf("unknown role should keep viewer permissions")
	}
}

func TestActorContextRoundTrip(t *testing.T) {
	actor := Actor{ID: "1", Name: "Ava", Role: RoleManager}
	ctx := ContextWithActor(context.Background(), actor)

	got := ActorFromContext(ctx)
	if got.Name != "Ava" || got.Role != RoleManager {
		t.Errorf("actor = %+v", got)
	}

	fallback := ActorFromContext(context.Background())
	if fallback.Role != RoleViewer {
		t.Errorf("missing actor should default to Anonymous, got %+v", fallback)
	}
	if fallback.DisplayName() != "Anonymous" {
		t.Errorf("display name = %q", fallback.DisplayName())
	}
}

func TestDisplayNameDefaultsToSystem(t *testing.T) {
	if got := (Actor{}).DisplayName(); got != "System" {
		t.Errorf("empty actor display name = %q", got)
	}
}
