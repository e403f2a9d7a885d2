package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/inventory/model"
)

const (
	defaultLookbackDays = 90
	defaultLeadTimeDays = 14
)

// ReportService builds stock reconciliation, ABC and shortage reports.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type itemAggregate struct {
	ItemCode string
	Total    float64
}

func (s *ReportService) receivedByItem(ctx context.Context, organizationID string) (map[string]float64, error) {
	var rows []itemAggregate
	err := s.db.WithContext(ctx).Model(&model.GRN{}).
		Select("item_code, SUM(qty_received) AS total").
		Where("organization_id = ?", organizationID).
		Group("item_code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate receipts: %w", err)
	}
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.ItemCode] = row.Total
	}
	return totals, nil
}

func (s *ReportService) issuedByItem(ctx context.Context, organizationID string, since time.Time) (map[string]float64, error) {
	query := s.db.WithContext(ctx).Model(&model.IssueLog{}).
		Select("item_code, SUM(qty_issued) AS total").
		Where("organization_id = ?", organizationID)
	if !since.IsZero() {
		query = query.Where("issued_at >= ?", since)
	}
	var rows []itemAggregate
	if err := query.Group("item_code").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate issues: %w", err)
	}
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.ItemCode] = row.Total
	}
	return totals, nil
}

func (s *ReportService) allItems(ctx context.Context, organizationID string) ([]model.StockItem, error) {
	var items []model.StockItem
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("item_code ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock items: %w", err)
	}
	return items, nil
}

// VarianceReport reconciles every item's book quantity against its physical
// quantity and classifies the divergence.
func (s *ReportService) VarianceReport(ctx context.Context, organizationID string) ([]model.VarianceEntry, error) {
	items, err := s.allItems(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	received, err := s.receivedByItem(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	issued, err := s.issuedByItem(ctx, organizationID, time.Time{})
	if err != nil {
		return nil, err
	}

	entries := make([]model.VarianceEntry, 0, len(items))
	for _, item := range items {
		calculated, variance, pct := CalculateVariance(
			item.OpeningQty, received[item.ItemCode], issued[item.ItemCode], item.CurrentQty)
		entries = append(entries, model.VarianceEntry{
			ItemCode:      item.ItemCode,
			Name:          item.Name,
			OpeningQty:    item.OpeningQty,
			ReceivedQty:   received[item.ItemCode],
			IssuedQty:     issued[item.ItemCode],
			CalculatedQty: calculated,
			CurrentQty:    item.CurrentQty,
			Variance:      variance,
			VariancePct:   pct,
			Severity:      ClassifySeverity(pct),
		})
	}
	return entries, nil
}

// ABCAnalysis ranks items by consumption value and classifies them by their
// cumulative contribution: A up to 70%, B up to 90%, C for the tail.
func (s *ReportService) ABCAnalysis(ctx context.Context, organizationID string) ([]model.ABCEntry, error) {
	items, err := s.allItems(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	issued, err := s.issuedByItem(ctx, organizationID, time.Time{})
	if err != nil {
		return nil, err
	}

	entries := make([]model.ABCEntry, 0, len(items))
	var totalValue float64
	for _, item := range items {
		value := issued[item.ItemCode] * item.UnitCost
		totalValue += value
		entries = append(entries, model.ABCEntry{
			ItemCode:   item.ItemCode,
			Name:       item.Name,
			UsageValue: value,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UsageValue > entries[j].UsageValue
	})

	var cumulative float64
	for i := range entries {
		cumulative += entries[i].UsageValue
		if totalValue > 0 {
			entries[i].CumulativePct = cumulative / totalValue * 100
		}
		switch {
		case entries[i].CumulativePct <= 70:
			entries[i].Class = model.ClassA
		case entries[i].CumulativePct <= 90:
			entries[i].Class = model.ClassB
		default:
			entries[i].Class = model.ClassC
		}
	}
	return entries, nil
}

// ShortageReport computes average daily consumption over the lookback window
// and flags items whose days of cover fall below the lead time.
func (s *ReportService) ShortageReport(ctx context.Context, organizationID string, lookbackDays, leadTimeDays int) ([]model.ShortageEntry, error) {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	if leadTimeDays <= 0 {
		leadTimeDays = defaultLeadTimeDays
	}

	items, err := s.allItems(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	issued, err := s.issuedByItem(ctx, organizationID, since)
	if err != nil {
		return nil, err
	}

	var entries []model.ShortageEntry
	for _, item := range items {
		avgDaily := issued[item.ItemCode] / float64(lookbackDays)
		if avgDaily <= 0 {
			continue
		}
		daysOfCover := item.CurrentQty / avgDaily
		if daysOfCover >= float64(leadTimeDays) {
			continue
		}
		suggested := avgDaily*float64(leadTimeDays) - item.CurrentQty
		entries = append(entries, model.ShortageEntry{
			ItemCode:      item.ItemCode,
			Name:          item.Name,
			CurrentQty:    item.CurrentQty,
			AvgDailyUsage: avgDaily,
			DaysOfCover:   daysOfCover,
			SuggestedQty:  suggested,
			Priority:      shortagePriority(daysOfCover, leadTimeDays),
			LeadTimeDays:  leadTimeDays,
			LookbackDays:  lookbackDays,
		})
	}
	return entries, nil
}

func shortagePriority(daysOfCover float64, leadTimeDays int) model.ShortagePriority {
	switch {
	case daysOfCover < float64(leadTimeDays)/3:
		return model.PriorityHigh
	case daysOfCover < float64(leadTimeDays)*2/3:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
