package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/packerp/packerp/internal/analytics"
	"github.com/packerp/packerp/internal/audit"
	"github.com/packerp/packerp/internal/auth"
	"github.com/packerp/packerp/internal/config"
	"github.com/packerp/packerp/internal/database"
	"github.com/packerp/packerp/internal/documents"
	gstmodel "github.com/packerp/packerp/internal/gst/model"
	gstrouter "github.com/packerp/packerp/internal/gst/router"
	gstservice "github.com/packerp/packerp/internal/gst/service"
	invmodel "github.com/packerp/packerp/internal/inventory/model"
	invrouter "github.com/packerp/packerp/internal/inventory/router"
	invservice "github.com/packerp/packerp/internal/inventory/service"
	"github.com/packerp/packerp/internal/middleware"
	"github.com/packerp/packerp/internal/realtime"
	"github.com/packerp/packerp/internal/workflow"
	wfmodel "github.com/packerp/packerp/internal/workflow/model"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"storage_type", cfg.Storage.Type,
		"audit_db", cfg.Audit.DBPath,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := db.AutoMigrate(
		&auth.OrganizationContext{},
		&wfmodel.WorkflowStage{},
		&wfmodel.Order{},
		&wfmodel.WorkflowProgress{},
		&wfmodel.QualityInspection{},
		&invmodel.StockItem{},
		&invmodel.GRN{},
		&invmodel.IssueLog{},
		&gstmodel.InvoiceLine{},
		&documents.Document{},
	); err != nil {
		log.Fatalf("failed to migrate database schema: %v", err)
	}

	// Audit journal lives in its own embedded SQLite store
	journal, err := audit.NewJournal(cfg.Audit.DBPath)
	if err != nil {
		log.Fatalf("failed to open audit journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			slog.Error("failed to close audit journal", "error", err)
		}
	}()

	// Realtime hub fans database changes out to SSE subscribers
	hub := realtime.NewHub()
	defer hub.Close()

	ctx := context.Background()
	storageDriver, err := documents.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}

	// Wire up services and routes
	mux := http.NewServeMux()

	wm := workflow.NewManager(db, journal, hub)
	wm.RegisterRoutes(mux)

	stockService := invservice.NewStockService(db, hub)
	reportService := invservice.NewReportService(db)
	invrouter.NewStockRouter(stockService, reportService).RegisterRoutes(mux)

	gstrouter.NewGSTRouter(gstservice.NewInvoiceService(db)).RegisterRoutes(mux)

	documentService := documents.NewDocumentService(db, storageDriver)
	documents.NewHTTPHandler(documentService).RegisterRoutes(mux)

	analytics.NewRouter(analytics.NewService(db, reportService)).RegisterRoutes(mux)

	authService := auth.NewAuthService(db)
	mux.HandleFunc("POST /api/organizations", authService.HandleProvisionOrganization)
	mux.HandleFunc("GET /api/organizations/me", authService.HandleCurrentOrganization)

	mux.HandleFunc("GET /api/events", hub.HandleEvents)
	mux.HandleFunc("GET /api/audit/entries", journal.HandleRecent)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(db); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Wrap handler with auth and CORS middleware
	handler := middleware.CORS(&cfg.CORS)(auth.Middleware(authService)(mux))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
