package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceDirection distinguishes sales lines from purchase lines.
type InvoiceDirection string

const (
	DirectionOutward InvoiceDirection = "outward" // sales, tax payable
	DirectionInward  InvoiceDirection = "inward"  // purchases, input tax credit
)

// InvoiceLine is one taxable line of a GST invoice.
type InvoiceLine struct {
	ID                 uuid.UUID        `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	CreatedAt          time.Time        `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	OrganizationID     string           `gorm:"type:varchar(64);column:organization_id;not null;index" json:"organizationId"`
	InvoiceNumber      string           `gorm:"type:varchar(64);column:invoice_number;not null;index" json:"invoiceNumber"`
	InvoiceDate        time.Time        `gorm:"type:timestamptz;column:invoice_date;not null" json:"invoiceDate"`
	Direction          InvoiceDirection `gorm:"type:varchar(16);column:direction;not null" json:"direction"`
	HSNCode            string           `gorm:"type:varchar(16);column:hsn_code" json:"hsnCode"`
	Description        string           `gorm:"type:varchar(255);column:description" json:"description"`
	TaxableValue       float64          `gorm:"type:numeric;column:taxable_value;not null" json:"taxableValue"`
	GSTRate            float64          `gorm:"type:numeric;column:gst_rate;not null" json:"gstRate"`
	SupplierStateCode  string           `gorm:"type:varchar(2);column:supplier_state_code;not null" json:"supplierStateCode"`
	RecipientStateCode string           `gorm:"type:varchar(2);column:recipient_state_code;not null" json:"recipientStateCode"`
	CGST               float64          `gorm:"type:numeric;column:cgst;not null" json:"cgst"`
	SGST               float64          `gorm:"type:numeric;column:sgst;not null" json:"sgst"`
	IGST               float64          `gorm:"type:numeric;column:igst;not null" json:"igst"`
}

// TableName returns the table name for the InvoiceLine model.
func (InvoiceLine) TableName() string {
	return "gst_invoice_lines"
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	l.CreatedAt = time.Now().UTC()
	return
}

// CreateInvoiceLineDTO is the payload for recording an invoice line.
type CreateInvoiceLineDTO struct {
	InvoiceNumber      string           `json:"invoiceNumber"`
	InvoiceDate        time.Time        `json:"invoiceDate"`
	Direction          InvoiceDirection `json:"direction"`
	HSNCode            string           `json:"hsnCode"`
	Description        string           `json:"description"`
	TaxableValue       float64          `json:"taxableValue"`
	GSTRate            float64          `json:"gstRate"`
	SupplierStateCode  string           `json:"supplierStateCode"`
	RecipientStateCode string           `json:"recipientStateCode"`
}

// TaxBreakup is the computed tax split for a single supply.
type TaxBreakup struct {
	IntraState bool    `json:"intraState"`
	CGST       float64 `json:"cgst"`
	SGST       float64 `json:"sgst"`
	IGST       float64 `json:"igst"`
	TotalTax   float64 `json:"totalTax"`
}

// GSTR3BSummary is a GSTR-3B style period summary: outward tax liability,
// input tax credit from inward supplies and the net payable after offset.
type GSTR3BSummary struct {
	Period               string  `json:"period"`
	OutwardTaxableValue  float64 `json:"outwardTaxableValue"`
	OutwardCGST          float64 `json:"outwardCgst"`
	OutwardSGST          float64 `json:"outwardSgst"`
	OutwardIGST          float64 `json:"outwardIgst"`
	ITCCGST              float64 `json:"itcCgst"`
	ITCSGST              float64 `json:"itcSgst"`
	ITCIGST              float64 `json:"itcIgst"`
	NetPayableCGST       float64 `json:"netPayableCgst"`
	NetPayableSGST       float64 `json:"netPayableSgst"`
	NetPayableIGST       float64 `json:"netPayableIgst"`
	NetPayableTotal      float64 `json:"netPayableTotal"`
}
