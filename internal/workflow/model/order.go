package model

// OrderStatus represents the lifecycle status of a production order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Order represents a production order. UIORN is the unique human-readable
// order reference used across the plant floor.
type Order struct {
	BaseModel
	OrganizationID string      `gorm:"type:varchar(100);column:organization_id;not null;index" json:"organizationId"`
	UIORN          string      `gorm:"type:varchar(50);column:uiorn;not null;uniqueIndex" json:"uiorn"`
	ItemCode       string      `gorm:"type:varchar(100);column:item_code;not null" json:"itemCode"`
	OrderQuantity  float64     `gorm:"column:order_quantity;not null" json:"orderQuantity"`
	Status         OrderStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`

	// Relationships
	Progress []WorkflowProgress `gorm:"foreignKey:OrderID;references:ID" json:"-"`
}

func (o *Order) TableName() string {
	return "orders"
}
