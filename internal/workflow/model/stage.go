package model

// WorkflowStage is one entry in an organization's ordered stage catalog
// (e.g. Printing, Lamination, Slitting). SequenceOrder is the ordering key and
// is unique per organization. Stages are created by configuration and are not
// mutated once production orders reference them.
type WorkflowStage struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(100);column:organization_id;not null;index;uniqueIndex:idx_org_sequence" json:"organizationId"`
	StageName      string `gorm:"type:varchar(255);column:stage_name;not null" json:"stageName"`
	SequenceOrder  int    `gorm:"column:sequence_order;not null;uniqueIndex:idx_org_sequence" json:"sequenceOrder"`
	IsActive       bool   `gorm:"column:is_active;not null;default:true" json:"isActive"`
}

func (ws *WorkflowStage) TableName() string {
	return "workflow_stages"
}
