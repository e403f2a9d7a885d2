package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/packerp/packerp/internal/auth"
)

// Router serves the dashboard endpoint.
type Router struct {
	service *Service
}

// NewRouter creates a new analytics router.
func NewRouter(service *Service) *Router {
	return &Router{service: service}
}

// RegisterRoutes attaches the analytics HTTP routes to the mux.
func (rt *Router) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/analytics/dashboard", rt.HandleDashboard)
}

func (rt *Router) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	organizationID := ""
	if authCtx := auth.GetAuthContext(r.Context()); authCtx != nil {
		organizationID = authCtx.OrganizationID
	} else if q := r.URL.Query().Get("organizationId"); q != "" {
		organizationID = q
	}
	if organizationID == "" {
		http.Error(w, "organizationId is required", http.StatusBadRequest)
		return
	}

	dashboard, err := rt.service.Dashboard(r.Context(), organizationID)
	if err != nil {
		http.Error(w, "failed to build dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dashboard); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
