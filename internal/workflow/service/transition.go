package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/packerp/packerp/internal/workflow/model"
)

// InspectionSource supplies quality inspections for an (order, stage) pair,
// newest first.
type InspectionSource interface {
	GetInspections(ctx context.Context, orderID, stageID uuid.UUID) ([]model.QualityInspection, error)
}

// TransitionValidator answers whether an order may move from one stage to the
// next based on the quality inspections recorded for the stage it is leaving.
type TransitionValidator struct {
	inspections InspectionSource
}

func NewTransitionValidator(inspections InspectionSource) *TransitionValidator {
	return &TransitionValidator{inspections: inspections}
}

// Validate allows the transition iff at least one inspection for the stage
// being left has passed and none is still pending.
func (v *TransitionValidator) Validate(ctx context.Context, orderID, fromStageID, toStageID uuid.UUID) (*model.ValidateTransitionResponse, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}
	if fromStageID == uuid.Nil || toStageID == uuid.Nil {
		return nil, fmt.Errorf("stage IDs cannot be nil")
	}

	inspections, err := v.inspections.GetInspections(ctx, orderID, fromStageID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve inspections: %w", err)
	}

	if len(inspections) == 0 {
		return &model.ValidateTransitionResponse{
			CanTransition: false,
			Reason:        "no quality inspection recorded for the current stage",
		}, nil
	}

	hasPassed := false
	for _, inspection := range inspections {
		switch inspection.Result {
		case model.InspectionResultPending:
			return &model.ValidateTransitionResponse{
				CanTransition: false,
				Reason:        "a quality inspection is still pending for the current stage",
			}, nil
		case model.InspectionResultPassed:
			hasPassed = true
		}
	}

	if !hasPassed {
		return &model.ValidateTransitionResponse{
			CanTransition: false,
			Reason:        "quality inspection has not passed for the current stage",
		}, nil
	}

	return &model.ValidateTransitionResponse{
		CanTransition: true,
		Reason:        "quality inspection passed",
	}, nil
}
