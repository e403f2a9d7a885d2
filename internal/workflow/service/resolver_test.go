package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/audit"
	"github.com/packerp/packerp/internal/workflow/model"
)

// MockStageCatalog is a mock implementation of StageCatalog
type MockStageCatalog struct {
	mock.Mock
}

func (m *MockStageCatalog) GetActiveStages(ctx context.Context, organizationID string) ([]model.WorkflowStage, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkflowStage), args.Error(1)
}

// MockProgressLedger is a mock implementation of ProgressLedger
type MockProgressLedger struct {
	mock.Mock
}

func (m *MockProgressLedger) GetRepresentedProgress(ctx context.Context, orderID uuid.UUID) ([]model.WorkflowProgress, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkflowProgress), args.Error(1)
}

func (m *MockProgressLedger) CreateProgress(ctx context.Context, progress *model.WorkflowProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressLedger) GetProgressByOrderAndStage(ctx context.Context, orderID, stageID uuid.UUID) (*model.WorkflowProgress, error) {
	args := m.Called(ctx, orderID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowProgress), args.Error(1)
}

// MockAuditRecorder is a mock implementation of AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func newTestResolver(catalog StageCatalog, ledger ProgressLedger, sink AuditRecorder) (*ProgressionResolver, *[]time.Duration) {
	r := NewProgressionResolver(catalog, ledger, sink)
	slept := &[]time.Duration{}
	r.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return r, slept
}

func stageCatalog(organizationID string, names ...string) []model.WorkflowStage {
	stages := make([]model.WorkflowStage, 0, len(names))
	for i, name := range names {
		stages = append(stages, model.WorkflowStage{
			BaseModel:      model.BaseModel{ID: uuid.New()},
			OrganizationID: organizationID,
			StageName:      name,
			SequenceOrder:  i + 1,
			IsActive:       true,
		})
	}
	return stages
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	orgID := "ORG-001"

	t.Run("No Stages Configured", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		catalog.On("GetActiveStages", ctx, orgID).Return([]model.WorkflowStage{}, nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionNoStagesConfigured, result.Decision)
		assert.Nil(t, result.Stage)
		assert.Nil(t, result.Progress)
		ledger.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
		sink.AssertExpectations(t)
	})

	t.Run("Activates First Stage For Fresh Order", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing", "Lamination", "Slitting")

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return([]model.WorkflowProgress{}, nil).Once()
		ledger.On("CreateProgress", ctx, mock.MatchedBy(func(p *model.WorkflowProgress) bool {
			return p.StageID == stages[0].ID &&
				p.Status == model.ProgressStatusPending &&
				p.ProgressPercentage == 0 &&
				p.QualityStatus == model.QualityStatusPending
		})).Return(nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionStageActivated, result.Decision)
		assert.Equal(t, "Printing", result.Stage.StageName)
		assert.Equal(t, 1, result.Stage.SequenceOrder)
		assert.NotNil(t, result.Progress)
		ledger.AssertExpectations(t)
	})

	t.Run("Activates Next Stage In Sequence", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing", "Lamination", "Slitting")
		represented := []model.WorkflowProgress{
			{
				BaseModel: model.BaseModel{ID: uuid.New()},
				OrderID:   orderID,
				StageID:   stages[0].ID,
				Status:    model.ProgressStatusCompleted,
			},
		}

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return(represented, nil).Once()
		ledger.On("CreateProgress", ctx, mock.MatchedBy(func(p *model.WorkflowProgress) bool {
			return p.StageID == stages[1].ID
		})).Return(nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionStageActivated, result.Decision)
		assert.Equal(t, "Lamination", result.Stage.StageName)
		assert.Equal(t, 2, result.Stage.SequenceOrder)
		ledger.AssertExpectations(t)
	})

	t.Run("Incomplete Current Stage Blocks Progression", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing", "Lamination", "Slitting")
		represented := []model.WorkflowProgress{
			{OrderID: orderID, StageID: stages[0].ID, Status: model.ProgressStatusCompleted},
			{OrderID: orderID, StageID: stages[1].ID, Status: model.ProgressStatusInProgress},
			{OrderID: orderID, StageID: stages[2].ID, Status: model.ProgressStatusInProgress},
		}

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return(represented, nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionIncompleteCurrentStage, result.Decision)
		// The first non-completed stage in catalog order is named
		assert.Equal(t, "Lamination", result.Stage.StageName)
		ledger.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
	})

	t.Run("In Progress Prior Stage Blocks Next Activation", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing", "Lamination", "Slitting")
		represented := []model.WorkflowProgress{
			{OrderID: orderID, StageID: stages[0].ID, Status: model.ProgressStatusCompleted},
			{OrderID: orderID, StageID: stages[1].ID, Status: model.ProgressStatusInProgress},
		}

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return(represented, nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionIncompleteCurrentStage, result.Decision)
		assert.Equal(t, "Lamination", result.Stage.StageName)
		ledger.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
	})

	t.Run("Workflow Complete Performs No Insert", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing", "Lamination", "Slitting")
		represented := make([]model.WorkflowProgress, 0, len(stages))
		for _, stage := range stages {
			represented = append(represented, model.WorkflowProgress{
				OrderID: orderID,
				StageID: stage.ID,
				Status:  model.ProgressStatusCompleted,
			})
		}

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return(represented, nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionWorkflowComplete, result.Decision)
		assert.Nil(t, result.Progress)
		ledger.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
	})

	t.Run("Insert Retries With Exponential Backoff", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, slept := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing")

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return([]model.WorkflowProgress{}, nil).Once()
		ledger.On("CreateProgress", ctx, mock.Anything).Return(errors.New("connection reset")).Twice()
		ledger.On("CreateProgress", ctx, mock.Anything).Return(nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionStageActivated, result.Decision)
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
		ledger.AssertExpectations(t)
	})

	t.Run("Insert Fails After All Retries", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, slept := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing")

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return([]model.WorkflowProgress{}, nil).Once()
		ledger.On("CreateProgress", ctx, mock.Anything).Return(errors.New("connection reset")).Times(4)

		_, err := resolver.Resolve(ctx, orgID, orderID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create progress")
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *slept)
		sink.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate Key Is Terminal Success", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, slept := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing")
		existing := &model.WorkflowProgress{
			BaseModel: model.BaseModel{ID: uuid.New()},
			OrderID:   orderID,
			StageID:   stages[0].ID,
			Status:    model.ProgressStatusPending,
		}

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return([]model.WorkflowProgress{}, nil).Once()
		ledger.On("CreateProgress", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey).Once()
		ledger.On("GetProgressByOrderAndStage", ctx, orderID, stages[0].ID).Return(existing, nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionStageActivated, result.Decision)
		assert.Equal(t, existing.ID, result.Progress.ID)
		// Duplicate key is not retried
		assert.Empty(t, *slept)
		ledger.AssertExpectations(t)
	})

	t.Run("Audit Failure Does Not Fail Resolution", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		orderID := uuid.New()
		stages := stageCatalog(orgID, "Printing")

		catalog.On("GetActiveStages", ctx, orgID).Return(stages, nil).Once()
		ledger.On("GetRepresentedProgress", ctx, orderID).Return([]model.WorkflowProgress{}, nil).Once()
		ledger.On("CreateProgress", ctx, mock.Anything).Return(nil).Once()
		sink.On("Record", ctx, mock.AnythingOfType("*audit.Entry")).Return(errors.New("journal unavailable")).Once()

		result, err := resolver.Resolve(ctx, orgID, orderID)
		assert.NoError(t, err)
		assert.Equal(t, DecisionStageActivated, result.Decision)
	})

	t.Run("Catalog Fetch Error Is Surfaced", func(t *testing.T) {
		catalog := new(MockStageCatalog)
		ledger := new(MockProgressLedger)
		sink := new(MockAuditRecorder)
		resolver, _ := newTestResolver(catalog, ledger, sink)

		catalog.On("GetActiveStages", ctx, orgID).Return(nil, errors.New("db down")).Once()

		_, err := resolver.Resolve(ctx, orgID, uuid.New())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load stage catalog")
	})
}
