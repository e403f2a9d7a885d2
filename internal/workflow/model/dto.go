package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Automation error codes surfaced on the wire for the automation endpoint.
const (
	AutomationErrorNoStagesConfigured     = "NO_STAGES_CONFIGURED"
	AutomationErrorIncompleteCurrentStage = "INCOMPLETE_CURRENT_STAGE"
	AutomationErrorWorkflowComplete       = "WORKFLOW_COMPLETE"
)

// AutomationRequest is the envelope for POST /api/automation.
type AutomationRequest struct {
	Action         string          `json:"action"`
	OrganizationID string          `json:"organizationId"`
	Data           json.RawMessage `json:"data"`
}

// AutoProgressData is the data payload for the auto_progress_workflow action.
type AutoProgressData struct {
	OrderID uuid.UUID `json:"orderId"`
}

// ValidateTransitionData is the data payload for the validate_stage_transition action.
type ValidateTransitionData struct {
	FromStageID uuid.UUID `json:"fromStageId"`
	ToStageID   uuid.UUID `json:"toStageId"`
	OrderID     uuid.UUID `json:"orderId"`
}

// AutoProgressResponse is the wire response for the auto_progress_workflow action.
type AutoProgressResponse struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	NextStage     string     `json:"nextStage,omitempty"`
	ProgressID    *uuid.UUID `json:"progressId,omitempty"`
	SequenceOrder *int       `json:"sequenceOrder,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// ValidateTransitionResponse is the wire response for the validate_stage_transition action.
type ValidateTransitionResponse struct {
	CanTransition bool   `json:"canTransition"`
	Reason        string `json:"reason"`
}

// CreateOrderDTO is the request body for creating a production order.
type CreateOrderDTO struct {
	ItemCode      string  `json:"itemCode"`
	OrderQuantity float64 `json:"orderQuantity"`
}

// CreateStageDTO is the request body for creating a workflow stage.
type CreateStageDTO struct {
	StageName     string `json:"stageName"`
	SequenceOrder int    `json:"sequenceOrder"`
}

// UpdateProgressDTO is the request body for a manual progress update.
type UpdateProgressDTO struct {
	Status             ProgressStatus `json:"status"`
	ProgressPercentage *int           `json:"progressPercentage,omitempty"`
	QualityStatus      QualityStatus  `json:"qualityStatus,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
}

// RecordInspectionDTO is the request body for recording a quality inspection.
type RecordInspectionDTO struct {
	OrderID     uuid.UUID        `json:"orderId"`
	StageID     uuid.UUID        `json:"stageId"`
	Result      InspectionResult `json:"result"`
	InspectorID string           `json:"inspectorId"`
	Remarks     string           `json:"remarks"`
}
