package router

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/packerp/packerp/internal/workflow/model"
	"github.com/packerp/packerp/internal/workflow/service"
)

type StageRouter struct {
	ss *service.StageService
}

func NewStageRouter(ss *service.StageService) *StageRouter {
	return &StageRouter{ss: ss}
}

// HandleCreateStage handles POST /api/stages requests.
// Request body: CreateStageDTO
func (sr *StageRouter) HandleCreateStage(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStageDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	stage, err := sr.ss.CreateStage(r.Context(), organizationID, &req)
	if err != nil {
		http.Error(w, "failed to create stage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, stage)
}

// HandleGetStages handles GET /api/stages requests.
// Optional Query Filters: offset, limit
func (sr *StageRouter) HandleGetStages(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	stages, err := sr.ss.GetStagesByOrganization(r.Context(), organizationID, offset, limit)
	if err != nil {
		http.Error(w, "failed to retrieve stages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stages)
}

// HandleGetStage handles GET /api/stages/{stageID} requests.
func (sr *StageRouter) HandleGetStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := uuid.Parse(r.PathValue("stageID"))
	if err != nil {
		http.Error(w, "invalid stage ID", http.StatusBadRequest)
		return
	}

	stage, err := sr.ss.GetStageByID(r.Context(), stageID)
	if err != nil {
		http.Error(w, "failed to retrieve stage: "+err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, stage)
}
