package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/packerp/packerp/internal/realtime"
	"github.com/packerp/packerp/internal/workflow/model"
)

func TestProgressService_GetRepresentedProgress(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProgressService(db, realtime.NewHub())
	ctx := context.Background()

	orderID := uuid.New()
	stageID := uuid.New()
	progressID := uuid.New()

	sqlMock.ExpectQuery(`SELECT "workflow_progress".* FROM "workflow_progress" JOIN workflow_stages ON workflow_stages.id = workflow_progress.stage_id`).
		WithArgs(orderID, sqlmock.AnyArg(), sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "stage_id", "status"}).
			AddRow(progressID, orderID, stageID, "completed"))

	// Preload("Stage")
	sqlMock.ExpectQuery(`SELECT \* FROM "workflow_stages"`).
		WithArgs(stageID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stage_name", "sequence_order", "is_active"}).
			AddRow(stageID, "Printing", 1, true))

	progress, err := service.GetRepresentedProgress(ctx, orderID)
	assert.NoError(t, err)
	assert.Len(t, progress, 1)
	assert.Equal(t, model.ProgressStatusCompleted, progress[0].Status)
	assert.NotNil(t, progress[0].Stage)
	assert.Equal(t, "Printing", progress[0].Stage.StageName)
}

func TestProgressService_CreateProgress_PublishesEvent(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	hub := realtime.NewHub()
	service := NewProgressService(db, hub)
	ctx := context.Background()

	events, cancel := hub.Subscribe()
	defer cancel()

	sqlMock.ExpectExec(`INSERT INTO "workflow_progress"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	progress := &model.WorkflowProgress{
		OrganizationID: "ORG-001",
		OrderID:        uuid.New(),
		StageID:        uuid.New(),
		Status:         model.ProgressStatusPending,
		QualityStatus:  model.QualityStatusPending,
	}
	err := service.CreateProgress(ctx, progress)
	assert.NoError(t, err)

	evt := <-events
	assert.Equal(t, "workflow_progress", evt.Entity)
	assert.Equal(t, "created", evt.Action)
	assert.Equal(t, "ORG-001", evt.OrganizationID)
}

func TestProgressService_UpdateProgress_Validation(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewProgressService(db, realtime.NewHub())
	ctx := context.Background()

	t.Run("Nil Progress ID", func(t *testing.T) {
		_, err := service.UpdateProgress(ctx, uuid.Nil, &model.UpdateProgressDTO{})
		assert.Error(t, err)
	})

	t.Run("Nil Request", func(t *testing.T) {
		_, err := service.UpdateProgress(ctx, uuid.New(), nil)
		assert.Error(t, err)
	})
}
