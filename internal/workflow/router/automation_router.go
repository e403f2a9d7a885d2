package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/packerp/packerp/internal/auth"
	"github.com/packerp/packerp/internal/workflow/model"
	"github.com/packerp/packerp/internal/workflow/service"
)

const (
	actionAutoProgress       = "auto_progress_workflow"
	actionValidateTransition = "validate_stage_transition"
)

type AutomationRouter struct {
	resolver  *service.ProgressionResolver
	validator *service.TransitionValidator
}

func NewAutomationRouter(resolver *service.ProgressionResolver, validator *service.TransitionValidator) *AutomationRouter {
	return &AutomationRouter{
		resolver:  resolver,
		validator: validator,
	}
}

// HandleAutomation handles POST /api/automation requests.
// Request body: AutomationRequest with action auto_progress_workflow or
// validate_stage_transition.
func (ar *AutomationRouter) HandleAutomation(w http.ResponseWriter, r *http.Request) {
	var req model.AutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	organizationID := req.OrganizationID
	if authCtx := auth.GetAuthContext(r.Context()); authCtx != nil {
		organizationID = authCtx.OrganizationID
	}
	if organizationID == "" {
		http.Error(w, "organizationId is required", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case actionAutoProgress:
		ar.handleAutoProgress(w, r, organizationID, req.Data)
	case actionValidateTransition:
		ar.handleValidateTransition(w, r, req.Data)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
	}
}

func (ar *AutomationRouter) handleAutoProgress(w http.ResponseWriter, r *http.Request, organizationID string, data json.RawMessage) {
	var payload model.AutoProgressData
	if err := json.Unmarshal(data, &payload); err != nil {
		http.Error(w, "invalid data payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := ar.resolver.Resolve(r.Context(), organizationID, payload.OrderID)
	if err != nil {
		http.Error(w, "failed to progress workflow: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, progressionResultToResponse(result))
}

func (ar *AutomationRouter) handleValidateTransition(w http.ResponseWriter, r *http.Request, data json.RawMessage) {
	var payload model.ValidateTransitionData
	if err := json.Unmarshal(data, &payload); err != nil {
		http.Error(w, "invalid data payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := ar.validator.Validate(r.Context(), payload.OrderID, payload.FromStageID, payload.ToStageID)
	if err != nil {
		http.Error(w, "failed to validate transition: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// progressionResultToResponse maps a tagged resolver result onto the wire format.
func progressionResultToResponse(result *service.ProgressionResult) *model.AutoProgressResponse {
	switch result.Decision {
	case service.DecisionStageActivated:
		resp := &model.AutoProgressResponse{
			Success:   true,
			Message:   fmt.Sprintf("activated stage %s", result.Stage.StageName),
			NextStage: result.Stage.StageName,
		}
		seq := result.Stage.SequenceOrder
		resp.SequenceOrder = &seq
		if result.Progress != nil {
			id := result.Progress.ID
			resp.ProgressID = &id
		}
		return resp
	case service.DecisionNoStagesConfigured:
		return &model.AutoProgressResponse{
			Success: false,
			Message: "no workflow stages configured for organization",
			Error:   model.AutomationErrorNoStagesConfigured,
		}
	case service.DecisionIncompleteCurrentStage:
		return &model.AutoProgressResponse{
			Success: false,
			Message: fmt.Sprintf("stage %s is not completed yet", result.Stage.StageName),
			Error:   model.AutomationErrorIncompleteCurrentStage,
		}
	case service.DecisionWorkflowComplete:
		return &model.AutoProgressResponse{
			Success: true,
			Message: "all workflow stages are completed",
			Error:   model.AutomationErrorWorkflowComplete,
		}
	default:
		return &model.AutoProgressResponse{
			Success: false,
			Message: fmt.Sprintf("unexpected decision %q", result.Decision),
		}
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
