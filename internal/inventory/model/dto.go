package model

import "time"

// CreateStockItemDTO is the payload for registering a stock item.
type CreateStockItemDTO struct {
	ItemCode     string  `json:"itemCode"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	OpeningQty   float64 `json:"openingQty"`
	CurrentQty   float64 `json:"currentQty"`
	ReorderLevel float64 `json:"reorderLevel"`
	UnitCost     float64 `json:"unitCost"`
}

// CreateGRNDTO is the payload for recording a goods receipt note.
type CreateGRNDTO struct {
	GRNNumber    string    `json:"grnNumber"`
	ItemCode     string    `json:"itemCode"`
	QtyReceived  float64   `json:"qtyReceived"`
	ReceivedDate time.Time `json:"receivedDate"`
	Supplier     string    `json:"supplier"`
	DocumentKey  string    `json:"documentKey"`
}

// CreateIssueDTO is the payload for recording a stock issue.
type CreateIssueDTO struct {
	ItemCode  string    `json:"itemCode"`
	QtyIssued float64   `json:"qtyIssued"`
	IssuedAt  time.Time `json:"issuedAt"`
	Purpose   string    `json:"purpose"`
}

// VarianceSeverity buckets a stock variance by how far book and physical
// quantities diverge.
type VarianceSeverity string

const (
	SeverityCritical VarianceSeverity = "critical"
	SeverityHigh     VarianceSeverity = "high"
	SeverityMedium   VarianceSeverity = "medium"
	SeverityLow      VarianceSeverity = "low"
)

// VarianceEntry is one item's row in a stock variance report.
type VarianceEntry struct {
	ItemCode      string           `json:"itemCode"`
	Name          string           `json:"name"`
	OpeningQty    float64          `json:"openingQty"`
	ReceivedQty   float64          `json:"receivedQty"`
	IssuedQty     float64          `json:"issuedQty"`
	CalculatedQty float64          `json:"calculatedQty"`
	CurrentQty    float64          `json:"currentQty"`
	Variance      float64          `json:"variance"`
	VariancePct   float64          `json:"variancePct"`
	Severity      VarianceSeverity `json:"severity"`
}

// ABCClass ranks an item's share of total consumption value.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ABCEntry is one item's row in an ABC analysis report.
type ABCEntry struct {
	ItemCode      string   `json:"itemCode"`
	Name          string   `json:"name"`
	UsageValue    float64  `json:"usageValue"`
	CumulativePct float64  `json:"cumulativePct"`
	Class         ABCClass `json:"class"`
}

// ShortagePriority ranks how urgently an item needs replenishment.
type ShortagePriority string

const (
	PriorityHigh   ShortagePriority = "high"
	PriorityMedium ShortagePriority = "medium"
	PriorityLow    ShortagePriority = "low"
)

// ShortageEntry is one item's row in an MRP shortage report.
type ShortageEntry struct {
	ItemCode      string           `json:"itemCode"`
	Name          string           `json:"name"`
	CurrentQty    float64          `json:"currentQty"`
	AvgDailyUsage float64          `json:"avgDailyUsage"`
	DaysOfCover   float64          `json:"daysOfCover"`
	SuggestedQty  float64          `json:"suggestedQty"`
	Priority      ShortagePriority `json:"priority"`
	LeadTimeDays  int              `json:"leadTimeDays"`
	LookbackDays  int              `json:"lookbackDays"`
}
