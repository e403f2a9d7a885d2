package workflow

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/audit"
	"github.com/packerp/packerp/internal/realtime"
	"github.com/packerp/packerp/internal/workflow/router"
	"github.com/packerp/packerp/internal/workflow/service"
)

// Manager wires the workflow services, resolver and routers together.
type Manager struct {
	stageService    *service.StageService
	orderService    *service.OrderService
	progressService *service.ProgressService
	qualityService  *service.QualityService
	resolver        *service.ProgressionResolver
	validator       *service.TransitionValidator

	stageRouter      *router.StageRouter
	orderRouter      *router.OrderRouter
	qualityRouter    *router.QualityRouter
	automationRouter *router.AutomationRouter
}

// NewManager creates a new workflow manager backed by the given database,
// audit journal and realtime hub.
func NewManager(db *gorm.DB, journal *audit.Journal, hub *realtime.Hub) *Manager {
	stageService := service.NewStageService(db)
	orderService := service.NewOrderService(db, hub)
	progressService := service.NewProgressService(db, hub)
	qualityService := service.NewQualityService(db)

	resolver := service.NewProgressionResolver(stageService, progressService, journal)
	validator := service.NewTransitionValidator(qualityService)

	m := &Manager{
		stageService:    stageService,
		orderService:    orderService,
		progressService: progressService,
		qualityService:  qualityService,
		resolver:        resolver,
		validator:       validator,
	}

	m.stageRouter = router.NewStageRouter(stageService)
	m.orderRouter = router.NewOrderRouter(orderService, progressService)
	m.qualityRouter = router.NewQualityRouter(qualityService)
	m.automationRouter = router.NewAutomationRouter(resolver, validator)

	return m
}

// RegisterRoutes attaches the workflow HTTP routes to the mux.
func (m *Manager) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/automation", m.automationRouter.HandleAutomation)

	mux.HandleFunc("POST /api/stages", m.stageRouter.HandleCreateStage)
	mux.HandleFunc("GET /api/stages", m.stageRouter.HandleGetStages)
	mux.HandleFunc("GET /api/stages/{stageID}", m.stageRouter.HandleGetStage)

	mux.HandleFunc("POST /api/orders", m.orderRouter.HandleCreateOrder)
	mux.HandleFunc("GET /api/orders", m.orderRouter.HandleGetOrders)
	mux.HandleFunc("GET /api/orders/{orderID}", m.orderRouter.HandleGetOrder)
	mux.HandleFunc("GET /api/orders/{orderID}/progress", m.orderRouter.HandleGetOrderProgress)
	mux.HandleFunc("PATCH /api/orders/{orderID}/status", m.orderRouter.HandleUpdateOrderStatus)
	mux.HandleFunc("PATCH /api/progress/{progressID}", m.orderRouter.HandleUpdateProgress)

	mux.HandleFunc("POST /api/inspections", m.qualityRouter.HandleRecordInspection)
	mux.HandleFunc("GET /api/inspections", m.qualityRouter.HandleGetInspections)
}
