package model

import "time"

// StockItem is a tracked raw material or finished good.
type StockItem struct {
	BaseModel
	OrganizationID string  `gorm:"type:varchar(64);column:organization_id;not null;uniqueIndex:idx_org_item" json:"organizationId"`
	ItemCode       string  `gorm:"type:varchar(64);column:item_code;not null;uniqueIndex:idx_org_item" json:"itemCode"`
	Name           string  `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Category       string  `gorm:"type:varchar(64);column:category" json:"category"`
	Unit           string  `gorm:"type:varchar(16);column:unit" json:"unit"`
	OpeningQty     float64 `gorm:"type:numeric;column:opening_qty;not null;default:0" json:"openingQty"`
	CurrentQty     float64 `gorm:"type:numeric;column:current_qty;not null;default:0" json:"currentQty"`
	ReorderLevel   float64 `gorm:"type:numeric;column:reorder_level;not null;default:0" json:"reorderLevel"`
	UnitCost       float64 `gorm:"type:numeric;column:unit_cost;not null;default:0" json:"unitCost"`
}

// TableName returns the table name for the StockItem model.
func (StockItem) TableName() string {
	return "stock_items"
}

// GRN is a goods receipt note recording inbound stock against a supplier.
type GRN struct {
	BaseModel
	OrganizationID string    `gorm:"type:varchar(64);column:organization_id;not null;uniqueIndex:idx_org_grn" json:"organizationId"`
	GRNNumber      string    `gorm:"type:varchar(64);column:grn_number;not null;uniqueIndex:idx_org_grn" json:"grnNumber"`
	ItemCode       string    `gorm:"type:varchar(64);column:item_code;not null;index" json:"itemCode"`
	QtyReceived    float64   `gorm:"type:numeric;column:qty_received;not null" json:"qtyReceived"`
	ReceivedDate   time.Time `gorm:"type:timestamptz;column:received_date;not null" json:"receivedDate"`
	Supplier       string    `gorm:"type:varchar(255);column:supplier" json:"supplier"`
	DocumentKey    string    `gorm:"type:varchar(512);column:document_key" json:"documentKey"`
}

// TableName returns the table name for the GRN model.
func (GRN) TableName() string {
	return "grns"
}

// IssueLog records stock issued out of the store, e.g. to a production order.
type IssueLog struct {
	BaseModel
	OrganizationID string    `gorm:"type:varchar(64);column:organization_id;not null;index" json:"organizationId"`
	ItemCode       string    `gorm:"type:varchar(64);column:item_code;not null;index" json:"itemCode"`
	QtyIssued      float64   `gorm:"type:numeric;column:qty_issued;not null" json:"qtyIssued"`
	IssuedAt       time.Time `gorm:"type:timestamptz;column:issued_at;not null" json:"issuedAt"`
	Purpose        string    `gorm:"type:varchar(255);column:purpose" json:"purpose"`
}

// TableName returns the table name for the IssueLog model.
func (IssueLog) TableName() string {
	return "issue_logs"
}
