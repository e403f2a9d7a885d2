package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/packerp/packerp/internal/auth"
	"github.com/packerp/packerp/internal/inventory/model"
	"github.com/packerp/packerp/internal/inventory/service"
	"github.com/packerp/packerp/utils"
)

// StockRouter exposes stock items, receipts, issues and reports over HTTP.
type StockRouter struct {
	stockService  *service.StockService
	reportService *service.ReportService
}

// NewStockRouter creates a new stock router.
func NewStockRouter(ss *service.StockService, rs *service.ReportService) *StockRouter {
	return &StockRouter{stockService: ss, reportService: rs}
}

// RegisterRoutes attaches the inventory HTTP routes to the mux.
func (sr *StockRouter) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/stock/items", sr.HandleCreateItem)
	mux.HandleFunc("GET /api/stock/items", sr.HandleGetItems)
	mux.HandleFunc("GET /api/stock/items/{itemCode}", sr.HandleGetItem)
	mux.HandleFunc("PUT /api/stock/items/{itemCode}/count", sr.HandleUpdateCount)
	mux.HandleFunc("POST /api/stock/grns", sr.HandleRecordGRN)
	mux.HandleFunc("POST /api/stock/issues", sr.HandleRecordIssue)
	mux.HandleFunc("GET /api/stock/reports/variance", sr.HandleVarianceReport)
	mux.HandleFunc("GET /api/stock/reports/abc", sr.HandleABCReport)
	mux.HandleFunc("GET /api/stock/reports/shortages", sr.HandleShortageReport)
}

func (sr *StockRouter) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var dto model.CreateStockItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item, err := sr.stockService.CreateItem(r.Context(), organizationID, &dto)
	if err != nil {
		http.Error(w, "failed to create stock item: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (sr *StockRouter) HandleGetItems(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}
	items, total, err := sr.stockService.GetItems(r.Context(), organizationID, offset, limit)
	if err != nil {
		http.Error(w, "failed to fetch stock items: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (sr *StockRouter) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	item, err := sr.stockService.GetItemByCode(r.Context(), organizationID, r.PathValue("itemCode"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			http.Error(w, "stock item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch stock item: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (sr *StockRouter) HandleUpdateCount(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var payload struct {
		CountedQty float64 `json:"countedQty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item, err := sr.stockService.UpdatePhysicalCount(r.Context(), organizationID, r.PathValue("itemCode"), payload.CountedQty)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			http.Error(w, "stock item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update physical count: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (sr *StockRouter) HandleRecordGRN(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var dto model.CreateGRNDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	grn, err := sr.stockService.RecordGRN(r.Context(), organizationID, &dto)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			http.Error(w, "stock item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to record grn: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, grn)
}

func (sr *StockRouter) HandleRecordIssue(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var dto model.CreateIssueDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	issue, err := sr.stockService.RecordIssue(r.Context(), organizationID, &dto)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			http.Error(w, "stock item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to record issue: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (sr *StockRouter) HandleVarianceReport(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	entries, err := sr.reportService.VarianceReport(r.Context(), organizationID)
	if err != nil {
		http.Error(w, "failed to build variance report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (sr *StockRouter) HandleABCReport(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	entries, err := sr.reportService.ABCAnalysis(r.Context(), organizationID)
	if err != nil {
		http.Error(w, "failed to build abc analysis: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (sr *StockRouter) HandleShortageReport(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	lookback := queryInt(r, "lookbackDays", 0)
	leadTime := queryInt(r, "leadTimeDays", 0)

	entries, err := sr.reportService.ShortageReport(r.Context(), organizationID, lookback, leadTime)
	if err != nil {
		http.Error(w, "failed to build shortage report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
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
