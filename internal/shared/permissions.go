package shared

// Feature-area permissions an Admin can be granted. SuperAdmin bypasses
// permission checks entirely; these only constrain Admin principals.
const (
	PermDriverApplications = "DRIVER_APPLICATIONS"
	PermReports            = "REPORTS"
	PermTrips              = "TRIPS"
	PermNotifications      = "NOTIFICATIONS"
	PermCarModels          = "CAR_MODELS"
	PermPromocodes         = "PROMOCODES"
	PermModeration         = "MODERATION"
)

// PermissionCatalog lists every grantable permission. Grant/revoke
// operations validate names against this set; the set is server-owned so
// the dashboard never hard-codes it.
func PermissionCatalog() []string {
	return []string{
		PermDriverApplications,
		PermReports,
		PermTrips,
		PermNotifications,
		PermCarModels,
		PermPromocodes,
		PermModeration,
	}
}

// KnownPermission reports whether name is part of the catalog.
func KnownPermission(name string) bool {
	for _, p := range PermissionCatalog() {
		if p == name {
			return true
		}
	}
	return false
}
