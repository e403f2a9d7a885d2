package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	invmodel "github.com/packerp/packerp/internal/inventory/model"
	invservice "github.com/packerp/packerp/internal/inventory/service"
	wfmodel "github.com/packerp/packerp/internal/workflow/model"
)

// StageLoad is the number of orders currently in progress at one stage.
type StageLoad struct {
	StageName string `json:"stageName"`
	Count     int64  `json:"count"`
}

// Dashboard is the aggregate view served to the organization dashboard.
type Dashboard struct {
	OrdersByStatus     map[wfmodel.OrderStatus]int64       `json:"ordersByStatus"`
	StageLoad          []StageLoad                         `json:"stageLoad"`
	ItemsBelowReorder  int64                               `json:"itemsBelowReorder"`
	VarianceBySeverity map[invmodel.VarianceSeverity]int64 `json:"varianceBySeverity"`
}

// Service computes dashboard aggregates across orders, stages and stock.
type Service struct {
	db      *gorm.DB
	reports *invservice.ReportService
}

// NewService creates a new analytics service.
func NewService(db *gorm.DB, reports *invservice.ReportService) *Service {
	return &Service{db: db, reports: reports}
}

type statusCount struct {
	Status string
	Count  int64
}

// Dashboard builds the organization's dashboard aggregates.
func (s *Service) Dashboard(ctx context.Context, organizationID string) (*Dashboard, error) {
	dashboard := &Dashboard{
		OrdersByStatus:     make(map[wfmodel.OrderStatus]int64),
		VarianceBySeverity: make(map[invmodel.VarianceSeverity]int64),
	}

	var orderRows []statusCount
	err := s.db.WithContext(ctx).Model(&wfmodel.Order{}).
		Select("status, COUNT(*) AS count").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&orderRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	for _, row := range orderRows {
		dashboard.OrdersByStatus[wfmodel.OrderStatus(row.Status)] = row.Count
	}

	err = s.db.WithContext(ctx).Model(&wfmodel.WorkflowProgress{}).
		Select("workflow_stages.stage_name AS stage_name, COUNT(*) AS count").
		Joins("JOIN workflow_stages ON workflow_stages.id = workflow_progress.stage_id").
		Where("workflow_progress.organization_id = ? AND workflow_progress.status = ?",
			organizationID, wfmodel.ProgressStatusInProgress).
		Group("workflow_stages.stage_name").
		Order("count DESC").
		Scan(&dashboard.StageLoad).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stage load: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&invmodel.StockItem{}).
		Where("organization_id = ? AND current_qty < reorder_level", organizationID).
		Count(&dashboard.ItemsBelowReorder).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reorder items: %w", err)
	}

	variances, err := s.reports.VarianceReport(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	for _, entry := range variances {
		dashboard.VarianceBySeverity[entry.Severity]++
	}

	return dashboard, nil
}
