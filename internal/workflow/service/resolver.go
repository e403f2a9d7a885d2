package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/audit"
	"github.com/packerp/packerp/internal/workflow/model"
)

const (
	maxInsertRetries = 3
	baseRetryDelay   = 2 * time.Second
)

// StageCatalog supplies the ordered list of active stages for an organization.
type StageCatalog interface {
	GetActiveStages(ctx context.Context, organizationID string) ([]model.WorkflowStage, error)
}

// ProgressLedger supplies and appends to the progress records of an order.
type ProgressLedger interface {
	GetRepresentedProgress(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowProgress, error)
	CreateProgress(ctx context.Context, progress *model.WorkflowProgress) error
	GetProgressByOrderAndStage(ctx context.Context, orderID, stageID uuid.UUID) (*model.WorkflowProgress, error)
}

// AuditRecorder receives one entry per resolver decision.
type AuditRecorder interface {
	Record(ctx context.Context, entry *audit.Entry) error
}

// ProgressionDecision tags the outcome of a resolution.
type ProgressionDecision string

const (
	DecisionStageActivated         ProgressionDecision = "STAGE_ACTIVATED"          // A new stage was activated (or already activated concurrently)
	DecisionNoStagesConfigured     ProgressionDecision = "NO_STAGES_CONFIGURED"     // The organization has no active stages
	DecisionIncompleteCurrentStage ProgressionDecision = "INCOMPLETE_CURRENT_STAGE" // Every stage is represented but one is not completed yet
	DecisionWorkflowComplete       ProgressionDecision = "WORKFLOW_COMPLETE"        // Every stage is represented and completed
)

// ProgressionResult is the outcome of one resolver invocation.
// Stage carries the activated stage for DecisionStageActivated and the
// blocking stage for DecisionIncompleteCurrentStage; it is nil otherwise.
// Progress is set only when a row was inserted or found for the activated stage.
type ProgressionResult struct {
	Decision ProgressionDecision
	Stage    *model.WorkflowStage
	Progress *model.WorkflowProgress
}

// ProgressionResolver decides which stage (if any) an order should activate
// next and creates the corresponding progress record. Stage activation follows
// ascending sequence order strictly; at most one new progress row is created
// per invocation. A unique constraint on (order_id, stage_id) makes the
// read-then-insert sequence safe under concurrent invocation: losing the race
// is a terminal success, not a retriable failure.
type ProgressionResolver struct {
	catalog StageCatalog
	ledger  ProgressLedger
	sink    AuditRecorder

	// sleep is swapped out in tests to avoid real backoff delays
	sleep func(time.Duration)
}

// NewProgressionResolver creates a new ProgressionResolver.
func NewProgressionResolver(catalog StageCatalog, ledger ProgressLedger, sink AuditRecorder) *ProgressionResolver {
	return &ProgressionResolver{
		catalog: catalog,
		ledger:  ledger,
		sink:    sink,
		sleep:   time.Sleep,
	}
}

// Resolve computes and applies the next-stage decision for one order.
// Data-fetch failures are returned as errors; domain outcomes are returned as
// tagged ProgressionResult variants.
func (r *ProgressionResolver) Resolve(ctx context.Context, organizationID string, orderID uuid.UUID) (*ProgressionResult, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}

	stages, err := r.catalog.GetActiveStages(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog: %w", err)
	}
	if len(stages) == 0 {
		result := &ProgressionResult{Decision: DecisionNoStagesConfigured}
		r.recordDecision(ctx, organizationID, orderID, result)
		return result, nil
	}

	represented, err := r.ledger.GetRepresentedProgress(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress ledger: %w", err)
	}

	representedStages := make(map[uuid.UUID]model.WorkflowProgress, len(represented))
	for _, p := range represented {
		representedStages[p.StageID] = p
	}

	// A represented stage that is not yet completed blocks any further
	// activation: stages progress strictly in sequence.
	for i := range stages {
		if p, exists := representedStages[stages[i].ID]; exists && p.Status != model.ProgressStatusCompleted {
			result := &ProgressionResult{
				Decision: DecisionIncompleteCurrentStage,
				Stage:    &stages[i],
			}
			r.recordDecision(ctx, organizationID, orderID, result)
			return result, nil
		}
	}

	// First stage in catalog order with no represented progress is the candidate.
	var candidate *model.WorkflowStage
	for i := range stages {
		if _, exists := representedStages[stages[i].ID]; !exists {
			candidate = &stages[i]
			break
		}
	}

	if candidate == nil {
		// Every stage is represented and completed.
		result := &ProgressionResult{Decision: DecisionWorkflowComplete}
		r.recordDecision(ctx, organizationID, orderID, result)
		return result, nil
	}

	progress, err := r.activateStage(ctx, organizationID, orderID, candidate)
	if err != nil {
		return nil, err
	}

	result := &ProgressionResult{
		Decision: DecisionStageActivated,
		Stage:    candidate,
		Progress: progress,
	}
	r.recordDecision(ctx, organizationID, orderID, result)
	return result, nil
}

// activateStage inserts the pending progress row for the candidate stage.
// Transient insert failures are retried with exponential backoff (2s, 4s, 8s).
// A duplicate-key failure means a concurrent invocation already activated the
// stage; the existing row is returned instead.
func (r *ProgressionResolver) activateStage(ctx context.Context, organizationID string, orderID uuid.UUID, stage *model.WorkflowStage) (*model.WorkflowProgress, error) {
	progress := &model.WorkflowProgress{
		OrganizationID:     organizationID,
		OrderID:            orderID,
		StageID:            stage.ID,
		Status:             model.ProgressStatusPending,
		ProgressPercentage: 0,
		QualityStatus:      model.QualityStatusPending,
	}

	err := r.ledger.CreateProgress(ctx, progress)
	for retry := 0; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) && retry < maxInsertRetries; retry++ {
		delay := baseRetryDelay * (1 << retry)
		slog.Warn("progress insert failed, retrying",
			"order_id", orderID,
			"stage", stage.StageName,
			"retry", retry+1,
			"delay", delay,
			"error", err,
		)
		r.sleep(delay)
		err = r.ledger.CreateProgress(ctx, progress)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to a concurrent invocation; the stage is already
		// activated, which is the outcome we wanted.
		existing, lookupErr := r.ledger.GetProgressByOrderAndStage(ctx, orderID, stage.ID)
		if lookupErr != nil {
			slog.Warn("stage already activated concurrently, existing row lookup failed",
				"order_id", orderID,
				"stage", stage.StageName,
				"error", lookupErr,
			)
			return nil, nil
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create progress for stage %s: %w", stage.StageName, err)
	}
	return progress, nil
}

// recordDecision writes the audit entry for a resolution. Audit failures are
// logged and never fail the operation.
func (r *ProgressionResolver) recordDecision(ctx context.Context, organizationID string, orderID uuid.UUID, result *ProgressionResult) {
	if r.sink == nil {
		return
	}

	meta := map[string]any{
		"order_id": orderID.String(),
		"decision": string(result.Decision),
	}
	if result.Stage != nil {
		meta["stage_name"] = result.Stage.StageName
		meta["sequence_order"] = result.Stage.SequenceOrder
	}
	metadata, err := json.Marshal(meta)
	if err != nil {
		slog.Warn("failed to marshal audit metadata", "order_id", orderID, "error", err)
		return
	}

	var newValue json.RawMessage
	if result.Progress != nil {
		if newValue, err = json.Marshal(result.Progress); err != nil {
			slog.Warn("failed to marshal audit payload", "order_id", orderID, "error", err)
			newValue = nil
		}
	}

	entry := &audit.Entry{
		OrganizationID: organizationID,
		Action:         "auto_progress_workflow",
		TargetTable:    "workflow_progress",
		OldValue:       nil,
		NewValue:       newValue,
		Metadata:       metadata,
	}
	if err := r.sink.Record(ctx, entry); err != nil {
		slog.Warn("failed to write audit entry",
			"order_id", orderID,
			"decision", result.Decision,
			"error", err,
		)
	}
}
