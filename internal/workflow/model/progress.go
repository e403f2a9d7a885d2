package model

import "github.com/google/uuid"

// ProgressStatus represents the lifecycle status of a stage progress entry.
type ProgressStatus string

const (
	ProgressStatusPending    ProgressStatus = "pending"     // Stage activated but work not started
	ProgressStatusInProgress ProgressStatus = "in_progress" // Stage work is underway
	ProgressStatusCompleted  ProgressStatus = "completed"   // Stage work is done
)

// QualityStatus represents the quality sub-state carried on a progress entry.
type QualityStatus string

const (
	QualityStatusPending QualityStatus = "pending"
	QualityStatusPassed  QualityStatus = "passed"
	QualityStatusFailed  QualityStatus = "failed"
)

// WorkflowProgress records an order's progress through one workflow stage.
// The unique index on (order_id, stage_id) enforces at most one row per
// order/stage pair; concurrent activations surface as a duplicate-key error
// which the resolver treats as terminal success.
type WorkflowProgress struct {
	BaseModel
	OrganizationID     string         `gorm:"type:varchar(100);column:organization_id;not null;index" json:"organizationId"`
	OrderID            uuid.UUID      `gorm:"type:uuid;column:order_id;not null;uniqueIndex:idx_order_stage" json:"orderId"`
	StageID            uuid.UUID      `gorm:"type:uuid;column:stage_id;not null;uniqueIndex:idx_order_stage" json:"stageId"`
	Status             ProgressStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	ProgressPercentage int            `gorm:"column:progress_percentage;not null;default:0" json:"progressPercentage"`
	QualityStatus      QualityStatus  `gorm:"type:varchar(20);column:quality_status;not null" json:"qualityStatus"`
	Notes              string         `gorm:"type:text;column:notes" json:"notes"`

	// Relationships
	Order *Order         `gorm:"foreignKey:OrderID;references:ID" json:"-"`
	Stage *WorkflowStage `gorm:"foreignKey:StageID;references:ID" json:"stage,omitempty"`
}

func (wp *WorkflowProgress) TableName() string {
	return "workflow_progress"
}
