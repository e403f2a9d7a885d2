package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/workflow/model"
)

// StageService provides access to the organization's workflow stage catalog.
type StageService struct {
	db *gorm.DB
}

func NewStageService(db *gorm.DB) *StageService {
	return &StageService{db: db}
}

// CreateStage adds a new stage to the organization's catalog.
func (s *StageService) CreateStage(ctx context.Context, organizationID string, req *model.CreateStageDTO) (*model.WorkflowStage, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if req.StageName == "" {
		return nil, fmt.Errorf("stage name cannot be empty")
	}
	if req.SequenceOrder <= 0 {
		return nil, fmt.Errorf("sequence order must be positive")
	}

	stage := &model.WorkflowStage{
		OrganizationID: organizationID,
		StageName:      req.StageName,
		SequenceOrder:  req.SequenceOrder,
		IsActive:       true,
	}

	if err := s.db.WithContext(ctx).Create(stage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("sequence order %d already exists for organization %s", req.SequenceOrder, organizationID)
		}
		return nil, fmt.Errorf("failed to create workflow stage: %w", err)
	}
	return stage, nil
}

// GetActiveStages returns the organization's active stages sorted ascending by
// sequence order. This is the catalog the progression resolver scans.
func (s *StageService) GetActiveStages(ctx context.Context, organizationID string) ([]model.WorkflowStage, error) {
	var stages []model.WorkflowStage
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		Order("sequence_order ASC").
		Find(&stages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workflow stages: %w", err)
	}
	return stages, nil
}

// GetStagesByOrganization returns a page of the organization's stages,
// including inactive ones, sorted by sequence order.
func (s *StageService) GetStagesByOrganization(ctx context.Context, organizationID string, offset, limit int) ([]model.WorkflowStage, error) {
	var stages []model.WorkflowStage
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("sequence_order ASC").
		Offset(offset).
		Limit(limit).
		Find(&stages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workflow stages: %w", err)
	}
	return stages, nil
}

// GetStageByID retrieves a single stage by its ID.
func (s *StageService) GetStageByID(ctx context.Context, stageID uuid.UUID) (*model.WorkflowStage, error) {
	if stageID == uuid.Nil {
		return nil, fmt.Errorf("stage ID cannot be nil")
	}

	var stage model.WorkflowStage
	result := s.db.WithContext(ctx).First(&stage, "id = ?", stageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workflow stage %s not found", stageID)
		}
		return nil, fmt.Errorf("failed to retrieve workflow stage: %w", result.Error)
	}
	return &stage, nil
}
