package nav_test

import (
	"testing"

	"github.com/yoldosh/admin-api/internal/nav"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

func entryByRoute(t *testing.T, entries []nav.ResolvedEntry, route string) nav.ResolvedEntry {
	t.Helper()
	for _, e := range entries {
		if e.Route == route {
			return e
		}
	}
	t.Fatalf("entry %s not found", route)
	return nav.ResolvedEntry{}
}

func TestPermissionGatingIsPerEntry(t *testing.T) {
	principal := shared.Principal{
		Role:        shared.RoleAdmin,
		Permissions: map[string]bool{shared.PermReports: true, shared.PermTrips: false},
	}

	entries := nav.AdminEntries()
	resolved := nav.Resolve(entries, principal)

	if len(resolved) != len(entries) {
		t.Fatalf("entry count changed: %d != %d", len(resolved), len(entries))
	}
	if !entryByRoute(t, resolved, "/admin/reports").Enabled {
		t.Fatalf("REPORTS entry must be navigable")
	}
	if entryByRoute(t, resolved, "/admin/trips").Enabled {
		t.Fatalf("TRIPS entry must be disabled, not removed")
	}
	if !entryByRoute(t, resolved, "/admin").Enabled {
		t.Fatalf("entry without required permission must always be navigable")
	}
}

func TestSuperAdminBypassesPermissionFiltering(t *testing.T) {
	principal := shared.Principal{Role: shared.RoleSuperAdmin}
	for _, e := range nav.Resolve(nav.AdminEntries(), principal) {
		if !e.Enabled {
			t.Fatalf("super-admin entry %s must be enabled", e.Route)
		}
	}
}

func TestTripsEnabledPromocodesDisabledScenario(t *testing.T) {
	// Mirrors the end-to-end flow: an admin granted only TRIPS sees the
	// Trips entry navigable and Promo codes disabled.
	principal := shared.Principal{
		Role:        shared.RoleAdmin,
		Permissions: map[string]bool{shared.PermTrips: true},
	}
	resolved := nav.Resolve(nav.AdminEntries(), principal)
	if !entryByRoute(t, resolved, "/admin/trips").Enabled {
		t.Fatalf("Trips entry must be navigable")
	}
	if entryByRoute(t, resolved, "/admin/promocodes").Enabled {
		t.Fatalf("Promo codes entry must be disabled")
	}
}
