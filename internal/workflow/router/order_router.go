package router

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/packerp/packerp/internal/auth"
	"github.com/packerp/packerp/internal/workflow/model"
	"github.com/packerp/packerp/internal/workflow/service"
	"github.com/packerp/packerp/utils"
)

type OrderRouter struct {
	os *service.OrderService
	ps *service.ProgressService
}

func NewOrderRouter(os *service.OrderService, ps *service.ProgressService) *OrderRouter {
	return &OrderRouter{os: os, ps: ps}
}

// HandleCreateOrder handles POST /api/orders requests.
// Request body: CreateOrderDTO
func (or *OrderRouter) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	order, err := or.os.CreateOrder(r.Context(), organizationID, &req)
	if err != nil {
		http.Error(w, "failed to create order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// HandleGetOrders handles GET /api/orders requests.
// Optional Query Filters: offset, limit
func (or *OrderRouter) HandleGetOrders(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	orders, err := or.os.GetOrdersByOrganization(r.Context(), organizationID, offset, limit)
	if err != nil {
		http.Error(w, "failed to retrieve orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// HandleGetOrder handles GET /api/orders/{orderID} requests.
func (or *OrderRouter) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		http.Error(w, "invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := or.os.GetOrderByID(r.Context(), orderID)
	if err != nil {
		http.Error(w, "failed to retrieve order: "+err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// HandleGetOrderProgress handles GET /api/orders/{orderID}/progress requests.
func (or *OrderRouter) HandleGetOrderProgress(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		http.Error(w, "invalid order ID", http.StatusBadRequest)
		return
	}

	progress, err := or.ps.GetProgressByOrderID(r.Context(), orderID)
	if err != nil {
		http.Error(w, "failed to retrieve progress: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// HandleUpdateProgress handles PATCH /api/progress/{progressID} requests.
// Request body: UpdateProgressDTO
func (or *OrderRouter) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	progressID, err := uuid.Parse(r.PathValue("progressID"))
	if err != nil {
		http.Error(w, "invalid progress ID", http.StatusBadRequest)
		return
	}

	var req model.UpdateProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	progress, err := or.ps.UpdateProgress(r.Context(), progressID, &req)
	if err != nil {
		http.Error(w, "failed to update progress: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// HandleUpdateOrderStatus handles PATCH /api/orders/{orderID}/status requests.
func (or *OrderRouter) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		http.Error(w, "invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch req.Status {
	case model.OrderStatusPending, model.OrderStatusInProgress,
		model.OrderStatusCompleted, model.OrderStatusCancelled:
	default:
		http.Error(w, "invalid order status", http.StatusBadRequest)
		return
	}

	if err := or.os.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		http.Error(w, "failed to update order status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
