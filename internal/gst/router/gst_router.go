package router

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/packerp/packerp/internal/auth"
	"github.com/packerp/packerp/internal/gst/model"
	"github.com/packerp/packerp/internal/gst/service"
	"github.com/packerp/packerp/utils"
)

// GSTRouter exposes tax computation and invoice line endpoints over HTTP.
type GSTRouter struct {
	invoiceService *service.InvoiceService
}

// NewGSTRouter creates a new GST router.
func NewGSTRouter(is *service.InvoiceService) *GSTRouter {
	return &GSTRouter{invoiceService: is}
}

// RegisterRoutes attaches the GST HTTP routes to the mux.
func (gr *GSTRouter) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/gst/compute", gr.HandleCompute)
	mux.HandleFunc("POST /api/gst/invoice-lines", gr.HandleRecordLine)
	mux.HandleFunc("GET /api/gst/invoice-lines", gr.HandleGetLines)
	mux.HandleFunc("GET /api/gst/gstr3b", gr.HandleSummary)
}

// HandleCompute is a stateless tax split calculation, useful for quoting.
func (gr *GSTRouter) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TaxableValue       float64 `json:"taxableValue"`
		GSTRate            float64 `json:"gstRate"`
		SupplierStateCode  string  `json:"supplierStateCode"`
		RecipientStateCode string  `json:"recipientStateCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	breakup, err := service.ComputeTax(payload.TaxableValue, payload.GSTRate,
		payload.SupplierStateCode, payload.RecipientStateCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, breakup)
}

func (gr *GSTRouter) HandleRecordLine(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var dto model.CreateInvoiceLineDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	line, err := gr.invoiceService.RecordLine(r.Context(), organizationID, &dto)
	if err != nil {
		http.Error(w, "failed to record invoice line: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (gr *GSTRouter) HandleGetLines(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var from, to time.Time
	if period := r.URL.Query().Get("period"); period != "" {
		start, err := time.Parse("2006-01", period)
		if err != nil {
			http.Error(w, "invalid 'period' query parameter, expected YYYY-MM", http.StatusBadRequest)
			return
		}
		from, to = start, start.AddDate(0, 1, 0)
	}

	lines, total, err := gr.invoiceService.GetLines(r.Context(), organizationID, from, to, offset, limit)
	if err != nil {
		http.Error(w, "failed to fetch invoice lines: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":  lines,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (gr *GSTRouter) HandleSummary(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		http.Error(w, "period is required, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	summary, err := gr.invoiceService.Summary(r.Context(), organizationID, period)
	if err != nil {
		http.Error(w, "failed to build summary: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// requireOrganization resolves the organization for a request from the auth
// context, falling back to the organizationId query parameter.
func requireOrganization(w http.ResponseWriter, r *http.Request) (string, bool) {
	if authCtx := auth.GetAuthContext(r.Context()); authCtx != nil {
		return authCtx.OrganizationID, true
	}
	if organizationID := r.URL.Query().Get("organizationId"); organizationID != "" {
		return organizationID, true
	}
	http.Error(w, "organizationId is required", http.StatusBadRequest)
	return "", false
}

// parsePagination reads the offset and limit query parameters and applies the
// shared pagination defaults.
func parsePagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	var offsetPtr, limitPtr *int

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return 0, 0, false
		}
		offsetPtr = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return 0, 0, false
		}
		limitPtr = &limit
	}

	offset, limit := utils.GetPaginationParams(offsetPtr, limitPtr)
	return offset, limit, true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
