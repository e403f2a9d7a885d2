package auth

import (
	"encoding/json"
	"net/http"
)

// ProvisionOrganizationDTO is the request body for organization provisioning.
// The API token arrives in the body on provisioning only; it is never echoed
// back in responses.
type ProvisionOrganizationDTO struct {
	OrganizationID string          `json:"organizationId"`
	Name           string          `json:"name"`
	APIToken       string          `json:"apiToken"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// HandleProvisionOrganization handles POST /api/organizations requests.
// Request body: ProvisionOrganizationDTO. Provisioning is an upsert, so
// re-posting an existing organization rotates its token and metadata.
func (as *AuthService) HandleProvisionOrganization(w http.ResponseWriter, r *http.Request) {
	var req ProvisionOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	orgCtx := &OrganizationContext{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		APIToken:       req.APIToken,
		Metadata:       req.Metadata,
	}
	if err := as.UpsertOrganization(orgCtx); err != nil {
		http.Error(w, "failed to provision organization: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(orgCtx)
}

// HandleCurrentOrganization handles GET /api/organizations/me requests.
// It reflects the identity of the token that authenticated the request.
func (as *AuthService) HandleCurrentOrganization(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	metadata, err := authCtx.GetMetadataMap()
	if err != nil {
		http.Error(w, "failed to read organization metadata: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"organizationId": authCtx.OrganizationID,
		"name":           authCtx.Name,
		"metadata":       metadata,
	})
}
