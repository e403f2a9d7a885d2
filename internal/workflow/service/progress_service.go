package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/realtime"
	"github.com/packerp/packerp/internal/workflow/model"
)

// ProgressService manages the append-only progress ledger for orders.
type ProgressService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewProgressService(db *gorm.DB, hub *realtime.Hub) *ProgressService {
	return &ProgressService{db: db, hub: hub}
}

// GetRepresentedProgress returns the order's progress rows whose status is
// completed or in_progress and whose stage is still active, with the stage
// preloaded. These are the rows the resolver counts as "represented".
func (s *ProgressService) GetRepresentedProgress(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowProgress, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}

	var progress []model.WorkflowProgress
	err := s.db.WithContext(ctx).
		Joins("JOIN workflow_stages ON workflow_stages.id = workflow_progress.stage_id").
		Where("workflow_progress.order_id = ?", orderID).
		Where("workflow_progress.status IN ?", []model.ProgressStatus{
			model.ProgressStatusCompleted,
			model.ProgressStatusInProgress,
		}).
		Where("workflow_stages.is_active = ?", true).
		Preload("Stage").
		Find(&progress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workflow progress: %w", err)
	}
	return progress, nil
}

// CreateProgress inserts a new progress row. A duplicate (order, stage) pair
// surfaces as gorm.ErrDuplicatedKey for the caller to interpret.
func (s *ProgressService) CreateProgress(ctx context.Context, progress *model.WorkflowProgress) error {
	if progress == nil {
		return fmt.Errorf("progress cannot be nil")
	}
	if err := s.db.WithContext(ctx).Create(progress).Error; err != nil {
		return err
	}

	s.hub.Publish(realtime.Event{
		Entity:         "workflow_progress",
		Action:         "created",
		OrganizationID: progress.OrganizationID,
		EntityID:       progress.ID.String(),
	})
	return nil
}

// GetProgressByOrderAndStage retrieves the progress row for one (order, stage) pair.
func (s *ProgressService) GetProgressByOrderAndStage(ctx context.Context, orderID, stageID uuid.UUID) (*model.WorkflowProgress, error) {
	var progress model.WorkflowProgress
	result := s.db.WithContext(ctx).
		First(&progress, "order_id = ? AND stage_id = ?", orderID, stageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workflow progress for order %s stage %s not found", orderID, stageID)
		}
		return nil, fmt.Errorf("failed to retrieve workflow progress: %w", result.Error)
	}
	return &progress, nil
}

// GetProgressByOrderID returns all progress rows for an order with their
// stages preloaded, sorted by the catalog's sequence order.
func (s *ProgressService) GetProgressByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowProgress, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}

	var progress []model.WorkflowProgress
	err := s.db.WithContext(ctx).
		Joins("JOIN workflow_stages ON workflow_stages.id = workflow_progress.stage_id").
		Where("workflow_progress.order_id = ?", orderID).
		Order("workflow_stages.sequence_order ASC").
		Preload("Stage").
		Find(&progress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workflow progress: %w", err)
	}
	return progress, nil
}

// UpdateProgress applies a manual progress update (status, percentage,
// quality status, notes) to an existing row.
func (s *ProgressService) UpdateProgress(ctx context.Context, progressID uuid.UUID, req *model.UpdateProgressDTO) (*model.WorkflowProgress, error) {
	if progressID == uuid.Nil {
		return nil, fmt.Errorf("progress ID cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("update request cannot be nil")
	}

	var progress model.WorkflowProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&progress, "id = ?", progressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("workflow progress %s not found", progressID)
			}
			return fmt.Errorf("failed to retrieve workflow progress: %w", err)
		}

		if req.Status != "" {
			progress.Status = req.Status
		}
		if req.ProgressPercentage != nil {
			if *req.ProgressPercentage < 0 || *req.ProgressPercentage > 100 {
				return fmt.Errorf("progress percentage must be between 0 and 100")
			}
			progress.ProgressPercentage = *req.ProgressPercentage
		}
		if req.QualityStatus != "" {
			progress.QualityStatus = req.QualityStatus
		}
		if req.Notes != nil {
			progress.Notes = *req.Notes
		}
		// Completing a stage implies full progress
		if progress.Status == model.ProgressStatusCompleted && req.ProgressPercentage == nil {
			progress.ProgressPercentage = 100
		}

		if err := tx.Save(&progress).Error; err != nil {
			return fmt.Errorf("failed to update workflow progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(realtime.Event{
		Entity:         "workflow_progress",
		Action:         "updated",
		OrganizationID: progress.OrganizationID,
		EntityID:       progress.ID.String(),
	})
	return &progress, nil
}
