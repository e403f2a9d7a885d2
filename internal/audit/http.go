package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/packerp/packerp/internal/auth"
)

// HandleRecent serves the most recent audit entries for an organization.
func (j *Journal) HandleRecent(w http.ResponseWriter, r *http.Request) {
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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := j.Recent(r.Context(), organizationID, limit)
	if err != nil {
		http.Error(w, "failed to list audit entries: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"entries": entries}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
