package model

import "github.com/google/uuid"

// InspectionResult represents the outcome of a quality inspection.
type InspectionResult string

const (
	InspectionResultPassed  InspectionResult = "passed"
	InspectionResultFailed  InspectionResult = "failed"
	InspectionResultPending InspectionResult = "pending"
)

// QualityInspection records a quality check performed on an order at a given
// stage. The transition validator consults these rows to decide whether an
// order may leave a stage.
type QualityInspection struct {
	BaseModel
	OrganizationID string           `gorm:"type:varchar(100);column:organization_id;not null;index" json:"organizationId"`
	OrderID        uuid.UUID        `gorm:"type:uuid;column:order_id;not null;index:idx_order_stage_inspection" json:"orderId"`
	StageID        uuid.UUID        `gorm:"type:uuid;column:stage_id;not null;index:idx_order_stage_inspection" json:"stageId"`
	Result         InspectionResult `gorm:"type:varchar(20);column:result;not null" json:"result"`
	InspectorID    string           `gorm:"type:varchar(100);column:inspector_id" json:"inspectorId"`
	Remarks        string           `gorm:"type:text;column:remarks" json:"remarks"`
}

func (qi *QualityInspection) TableName() string {
	return "quality_inspections"
}
