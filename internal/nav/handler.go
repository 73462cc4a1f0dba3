package nav

import (
	"net/http"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// HandleAdminNavigation serves the admin sidebar for the current principal.
func HandleAdminNavigation(w http.ResponseWriter, r *http.Request) {
	serveNavigation(w, r, AdminEntries())
}

// HandleSuperAdminNavigation serves the super-admin sidebar.
func HandleSuperAdminNavigation(w http.ResponseWriter, r *http.Request) {
	serveNavigation(w, r, SuperAdminEntries())
}

func serveNavigation(w http.ResponseWriter, r *http.Request, entries []Entry) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	httpx.Data(w, http.StatusOK, Resolve(entries, principal))
}
