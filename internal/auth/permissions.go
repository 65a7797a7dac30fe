package auth

// Role is a back-office role name as stored on the user record.
type Role string

const (
	RoleStoreAdministrator Role = "Store Administrator"
	RoleManager            Role = "Manager"
	RoleEditor             Role = "Editor"
	RoleCashier            Role = "Cashier"
	RoleViewer             Role = "Viewer"
)

// Permission is a named capability gate.
type Permission string

const (
	PermSettingsView   Permission = "settings:view"
	PermContentEdit    Permission = "content:edit"
	PermContentDelete  Permission = "content:delete"
	PermContentPublish Permission = "content:publish"
	PermContentImport  Permission = "content:import"
	PermSalesView      Permission = "sales:view"
	PermSalesCreate    Permission = "sales:create"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleStoreAdministrator: permissionSet(
		PermSettingsView, PermContentEdit, PermContentDelete, PermContentPublish,
		PermContentImport, PermSalesView, PermSalesCreate,
	),
	RoleManager: permissionSet(
		PermSettingsView, PermContentEdit, PermContentPublish, PermContentImport,
		PermSalesView, PermSalesCreate,
	),
	RoleEditor:  permissionSet(PermSettingsView, PermContentEdit, PermSalesView),
	RoleCashier: permissionSet(PermSalesView, PermSalesCreate),
	RoleViewer:  permissionSet(PermSalesView),
}

func permissionSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the role carries the permission. Unknown roles fall
// back to Viewer.
func (r Role) Has(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		perms = rolePermissions[RoleViewer]
	}
	_, ok = perms[p]
	return ok
}

// Permissions lists the role's permissions (for the session endpoint).
func (r Role) Permissions() []Permission {
	perms, ok := rolePermissions[r]
	if !ok {
		perms = rolePermissions[RoleViewer]
	}
	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	return out
}
