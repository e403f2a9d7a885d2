package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/packerp/packerp/internal/workflow/model"
)

func TestStageService_GetActiveStages(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewStageService(db)
	ctx := context.Background()

	stage1 := uuid.New()
	stage2 := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "workflow_stages" WHERE organization_id = \$1 AND is_active = \$2 ORDER BY sequence_order ASC`).
		WithArgs("ORG-001", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "stage_name", "sequence_order", "is_active"}).
			AddRow(stage1, "ORG-001", "Printing", 1, true).
			AddRow(stage2, "ORG-001", "Lamination", 2, true))

	stages, err := service.GetActiveStages(ctx, "ORG-001")
	assert.NoError(t, err)
	assert.Len(t, stages, 2)
	assert.Equal(t, "Printing", stages[0].StageName)
	assert.Equal(t, 1, stages[0].SequenceOrder)
	assert.Equal(t, "Lamination", stages[1].StageName)
}

func TestStageService_CreateStage(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewStageService(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sqlMock.ExpectExec(`INSERT INTO "workflow_stages"`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "ORG-001", "Printing", 1, true).
			WillReturnResult(sqlmock.NewResult(1, 1))

		stage, err := service.CreateStage(ctx, "ORG-001", &model.CreateStageDTO{
			StageName:     "Printing",
			SequenceOrder: 1,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Printing", stage.StageName)
		assert.True(t, stage.IsActive)
		assert.NotEqual(t, uuid.Nil, stage.ID)
	})

	t.Run("Empty Name Rejected", func(t *testing.T) {
		_, err := service.CreateStage(ctx, "ORG-001", &model.CreateStageDTO{SequenceOrder: 1})
		assert.Error(t, err)
	})

	t.Run("Non Positive Sequence Rejected", func(t *testing.T) {
		_, err := service.CreateStage(ctx, "ORG-001", &model.CreateStageDTO{StageName: "Printing"})
		assert.Error(t, err)
	})
}

func TestStageService_GetStageByID(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewStageService(db)
	ctx := context.Background()

	stageID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "workflow_stages" WHERE id = \$1 ORDER BY "workflow_stages"."id" LIMIT \$2`).
		WithArgs(stageID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "stage_name", "sequence_order", "is_active"}).
			AddRow(stageID, "ORG-001", "Slitting", 3, true))

	stage, err := service.GetStageByID(ctx, stageID)
	assert.NoError(t, err)
	assert.Equal(t, "Slitting", stage.StageName)
	assert.Equal(t, 3, stage.SequenceOrder)
}

func TestStageService_GetStageByID_NotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewStageService(db)
	ctx := context.Background()

	stageID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "workflow_stages" WHERE id = \$1 ORDER BY "workflow_stages"."id" LIMIT \$2`).
		WithArgs(stageID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.GetStageByID(ctx, stageID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
