package router

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/packerp/packerp/internal/workflow/model"
	"github.com/packerp/packerp/internal/workflow/service"
)

type QualityRouter struct {
	qs *service.QualityService
}

func NewQualityRouter(qs *service.QualityService) *QualityRouter {
	return &QualityRouter{qs: qs}
}

// HandleRecordInspection handles POST /api/inspections requests.
// Request body: RecordInspectionDTO
func (qr *QualityRouter) HandleRecordInspection(w http.ResponseWriter, r *http.Request) {
	var req model.RecordInspectionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	inspection, err := qr.qs.RecordInspection(r.Context(), organizationID, &req)
	if err != nil {
		http.Error(w, "failed to record inspection: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, inspection)
}

// HandleGetInspections handles GET /api/inspections requests.
// Required Query Filters: orderId, stageId
func (qr *QualityRouter) HandleGetInspections(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.URL.Query().Get("orderId"))
	if err != nil {
		http.Error(w, "orderId query parameter is required", http.StatusBadRequest)
		return
	}
	stageID, err := uuid.Parse(r.URL.Query().Get("stageId"))
	if err != nil {
		http.Error(w, "stageId query parameter is required", http.StatusBadRequest)
		return
	}

	inspections, err := qr.qs.GetInspections(r.Context(), orderID, stageID)
	if err != nil {
		http.Error(w, "failed to retrieve inspections: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, inspections)
}
