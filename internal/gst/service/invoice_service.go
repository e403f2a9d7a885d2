package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/gst/model"
)

// InvoiceService records GST invoice lines and builds period summaries.
type InvoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// RecordLine computes the tax split for the line and persists it.
func (s *InvoiceService) RecordLine(ctx context.Context, organizationID string, dto *model.CreateInvoiceLineDTO) (*model.InvoiceLine, error) {
	if dto.InvoiceNumber == "" {
		return nil, errors.New("invoice number is required")
	}
	if dto.Direction != model.DirectionOutward && dto.Direction != model.DirectionInward {
		return nil, fmt.Errorf("invalid direction %q", dto.Direction)
	}
	invoiceDate := dto.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now().UTC()
	}

	breakup, err := ComputeTax(dto.TaxableValue, dto.GSTRate, dto.SupplierStateCode, dto.RecipientStateCode)
	if err != nil {
		return nil, err
	}

	line := &model.InvoiceLine{
		OrganizationID:     organizationID,
		InvoiceNumber:      dto.InvoiceNumber,
		InvoiceDate:        invoiceDate,
		Direction:          dto.Direction,
		HSNCode:            dto.HSNCode,
		Description:        dto.Description,
		TaxableValue:       dto.TaxableValue,
		GSTRate:            dto.GSTRate,
		SupplierStateCode:  dto.SupplierStateCode,
		RecipientStateCode: dto.RecipientStateCode,
		CGST:               breakup.CGST,
		SGST:               breakup.SGST,
		IGST:               breakup.IGST,
	}
	if err := s.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to record invoice line: %w", err)
	}
	return line, nil
}

// GetLines returns the organization's invoice lines for a period, newest first.
func (s *InvoiceService) GetLines(ctx context.Context, organizationID string, from, to time.Time, offset, limit int) ([]model.InvoiceLine, int64, error) {
	var lines []model.InvoiceLine
	var total int64

	query := s.db.WithContext(ctx).Model(&model.InvoiceLine{}).
		Where("organization_id = ?", organizationID)
	if !from.IsZero() {
		query = query.Where("invoice_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("invoice_date < ?", to)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoice lines: %w", err)
	}
	if err := query.Order("invoice_date DESC").Offset(offset).Limit(limit).Find(&lines).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoice lines: %w", err)
	}
	return lines, total, nil
}

type directionTotals struct {
	Direction    model.InvoiceDirection
	TaxableValue float64
	CGST         float64
	SGST         float64
	IGST         float64
}

// Summary builds a GSTR-3B style summary for the calendar month given as
// "YYYY-MM": outward liability per tax head, input tax credit from inward
// lines and the net payable after offsetting ITC head against head.
func (s *InvoiceService) Summary(ctx context.Context, organizationID, period string) (*model.GSTR3BSummary, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return nil, fmt.Errorf("invalid period %q, expected YYYY-MM", period)
	}
	end := start.AddDate(0, 1, 0)

	var rows []directionTotals
	err = s.db.WithContext(ctx).Model(&model.InvoiceLine{}).
		Select("direction, SUM(taxable_value) AS taxable_value, SUM(cgst) AS cgst, SUM(sgst) AS sgst, SUM(igst) AS igst").
		Where("organization_id = ? AND invoice_date >= ? AND invoice_date < ?", organizationID, start, end).
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoice lines: %w", err)
	}

	summary := &model.GSTR3BSummary{Period: period}
	for _, row := range rows {
		switch row.Direction {
		case model.DirectionOutward:
			summary.OutwardTaxableValue = row.TaxableValue
			summary.OutwardCGST = row.CGST
			summary.OutwardSGST = row.SGST
			summary.OutwardIGST = row.IGST
		case model.DirectionInward:
			summary.ITCCGST = row.CGST
			summary.ITCSGST = row.SGST
			summary.ITCIGST = row.IGST
		}
	}

	summary.NetPayableCGST = netPayable(summary.OutwardCGST, summary.ITCCGST)
	summary.NetPayableSGST = netPayable(summary.OutwardSGST, summary.ITCSGST)
	summary.NetPayableIGST = netPayable(summary.OutwardIGST, summary.ITCIGST)
	summary.NetPayableTotal = roundPaise(summary.NetPayableCGST + summary.NetPayableSGST + summary.NetPayableIGST)
	return summary, nil
}

// netPayable offsets the credit against the liability, never below zero.
func netPayable(liability, credit float64) float64 {
	net := liability - credit
	if net < 0 {
		return 0
	}
	return roundPaise(net)
}
