package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/workflow/model"
)

// QualityService records and retrieves quality inspections.
type QualityService struct {
	db *gorm.DB
}

func NewQualityService(db *gorm.DB) *QualityService {
	return &QualityService{db: db}
}

// RecordInspection saves a quality inspection for an order at a stage.
func (s *QualityService) RecordInspection(ctx context.Context, organizationID string, req *model.RecordInspectionDTO) (*model.QualityInspection, error) {
	if req == nil {
		return nil, fmt.Errorf("inspection request cannot be nil")
	}
	if req.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}
	if req.StageID == uuid.Nil {
		return nil, fmt.Errorf("stage ID cannot be nil")
	}
	switch req.Result {
	case model.InspectionResultPassed, model.InspectionResultFailed, model.InspectionResultPending:
	default:
		return nil, fmt.Errorf("invalid inspection result %q", req.Result)
	}

	inspection := &model.QualityInspection{
		OrganizationID: organizationID,
		OrderID:        req.OrderID,
		StageID:        req.StageID,
		Result:         req.Result,
		InspectorID:    req.InspectorID,
		Remarks:        req.Remarks,
	}
	if err := s.db.WithContext(ctx).Create(inspection).Error; err != nil {
		return nil, fmt.Errorf("failed to record quality inspection: %w", err)
	}
	return inspection, nil
}

// GetInspections returns the inspections for an (order, stage) pair, newest first.
func (s *QualityService) GetInspections(ctx context.Context, orderID, stageID uuid.UUID) ([]model.QualityInspection, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}
	if stageID == uuid.Nil {
		return nil, fmt.Errorf("stage ID cannot be nil")
	}

	var inspections []model.QualityInspection
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND stage_id = ?", orderID, stageID).
		Order("created_at DESC").
		Find(&inspections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve quality inspections: %w", err)
	}
	return inspections, nil
}
