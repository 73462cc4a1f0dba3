// Package nav computes the permission-scoped navigation the dashboard
// renders. Entries an admin may not use are disabled, never hidden, so
// the full feature surface stays visible.
package nav

import "github.com/yoldosh/admin-api/internal/shared"

// Entry is one fixed navigation item. RequiredPermission is empty for
// entries every principal of the scope may use.
type Entry struct {
	Label              string
	Route              string
	Icon               string
	RequiredPermission string
}

// ResolvedEntry is an Entry evaluated against a principal.
type ResolvedEntry struct {
	Label   string `json:"label"`
	Route   string `json:"route"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
}

// AdminEntries returns the admin sidebar, in render order.
func AdminEntries() []Entry {
	return []Entry{
		{Label: "Home", Route: "/admin", Icon: "home"},
		{Label: "Driver applications", Route: "/admin/driver-applications", Icon: "car", RequiredPermission: shared.PermDriverApplications},
		{Label: "Reports", Route: "/admin/reports", Icon: "flag", RequiredPermission: shared.PermReports},
		{Label: "Trips", Route: "/admin/trips", Icon: "route", RequiredPermission: shared.PermTrips},
		{Label: "Notifications", Route: "/admin/notifications", Icon: "bell", RequiredPermission: shared.PermNotifications},
		{Label: "Car models", Route: "/admin/car-models", Icon: "car-front", RequiredPermission: shared.PermCarModels},
		{Label: "Promo codes", Route: "/admin/promocodes", Icon: "ticket", RequiredPermission: shared.PermPromocodes},
		{Label: "Moderation", Route: "/admin/moderation", Icon: "shield-alert", RequiredPermission: shared.PermModeration},
	}
}

// SuperAdminEntries returns the super-admin sidebar, in render order.
func SuperAdminEntries() []Entry {
	return []Entry{
		{Label: "Home", Route: "/super-admin", Icon: "home"},
		{Label: "Admins", Route: "/super-admin/admins", Icon: "users"},
		{Label: "Logs", Route: "/super-admin/logs", Icon: "scroll"},
	}
}

// Resolve evaluates entries against a principal. SuperAdmin principals
// get every entry enabled; for Admin, an entry with a required permission
// is enabled iff the permission is granted. The entry count never
// changes.
func Resolve(entries []Entry, principal shared.Principal) []ResolvedEntry {
	resolved := make([]ResolvedEntry, 0, len(entries))
	for _, entry := range entries {
		enabled := entry.RequiredPermission == "" || principal.Allowed(entry.RequiredPermission)
		resolved = append(resolved, ResolvedEntry{
			Label:   entry.Label,
			Route:   entry.Route,
			Icon:    entry.Icon,
			Enabled: enabled,
		})
	}
	return resolved
}
