package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/inventory/model"
	"github.com/packerp/packerp/internal/realtime"
)

var ErrItemNotFound = errors.New("stock item not found")

// StockService manages stock items, goods receipts and issues.
type StockService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewStockService creates a new stock service.
func NewStockService(db *gorm.DB, hub *realtime.Hub) *StockService {
	return &StockService{db: db, hub: hub}
}

// CreateItem registers a new stock item for the organization.
func (s *StockService) CreateItem(ctx context.Context, organizationID string, dto *model.CreateStockItemDTO) (*model.StockItem, error) {
	if dto.ItemCode == "" {
		return nil, errors.New("item code is required")
	}
	if dto.Name == "" {
		return nil, errors.New("item name is required")
	}

	item := &model.StockItem{
		OrganizationID: organizationID,
		ItemCode:       dto.ItemCode,
		Name:           dto.Name,
		Category:       dto.Category,
		Unit:           dto.Unit,
		OpeningQty:     dto.OpeningQty,
		CurrentQty:     dto.CurrentQty,
		ReorderLevel:   dto.ReorderLevel,
		UnitCost:       dto.UnitCost,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("item code %s already exists", dto.ItemCode)
		}
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	s.hub.Publish(realtime.Event{
		OrganizationID: organizationID,
		Entity:         "stock_item",
		Action:         "created",
		EntityID:       item.ID.String(),
	})
	return item, nil
}

// GetItems returns the organization's stock items, paginated.
func (s *StockService) GetItems(ctx context.Context, organizationID string, offset, limit int) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	query := s.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("organization_id = ?", organizationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock items: %w", err)
	}
	if err := query.Order("item_code ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock items: %w", err)
	}
	return items, total, nil
}

// GetItemByCode returns a single stock item by its code.
func (s *StockService) GetItemByCode(ctx context.Context, organizationID, itemCode string) (*model.StockItem, error) {
	var item model.StockItem
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND item_code = ?", organizationID, itemCode).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch stock item: %w", err)
	}
	return &item, nil
}

// RecordGRN records a goods receipt and increments the item's current
// quantity inside one transaction.
func (s *StockService) RecordGRN(ctx context.Context, organizationID string, dto *model.CreateGRNDTO) (*model.GRN, error) {
	if dto.GRNNumber == "" {
		return nil, errors.New("grn number is required")
	}
	if dto.QtyReceived <= 0 {
		return nil, errors.New("received quantity must be positive")
	}
	receivedDate := dto.ReceivedDate
	if receivedDate.IsZero() {
		receivedDate = time.Now().UTC()
	}

	grn := &model.GRN{
		OrganizationID: organizationID,
		GRNNumber:      dto.GRNNumber,
		ItemCode:       dto.ItemCode,
		QtyReceived:    dto.QtyReceived,
		ReceivedDate:   receivedDate,
		Supplier:       dto.Supplier,
		DocumentKey:    dto.DocumentKey,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.StockItem
		if err := tx.Where("organization_id = ? AND item_code = ?", organizationID, dto.ItemCode).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if err := tx.Create(grn).Error; err != nil {
			return err
		}
		return tx.Model(&model.StockItem{}).
			Where("id = ?", item.ID).
			Update("current_qty", gorm.Expr("current_qty + ?", dto.QtyReceived)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("grn number %s already exists", dto.GRNNumber)
		}
		return nil, fmt.Errorf("failed to record grn: %w", err)
	}

	s.hub.Publish(realtime.Event{
		OrganizationID: organizationID,
		Entity:         "grn",
		Action:         "created",
		EntityID:       grn.ID.String(),
	})
	return grn, nil
}

// RecordIssue records an outbound stock issue and decrements the item's
// current quantity inside one transaction.
func (s *StockService) RecordIssue(ctx context.Context, organizationID string, dto *model.CreateIssueDTO) (*model.IssueLog, error) {
	if dto.QtyIssued <= 0 {
		return nil, errors.New("issued quantity must be positive")
	}
	issuedAt := dto.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now().UTC()
	}

	issue := &model.IssueLog{
		OrganizationID: organizationID,
		ItemCode:       dto.ItemCode,
		QtyIssued:      dto.QtyIssued,
		IssuedAt:       issuedAt,
		Purpose:        dto.Purpose,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.StockItem
		if err := tx.Where("organization_id = ? AND item_code = ?", organizationID, dto.ItemCode).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if err := tx.Create(issue).Error; err != nil {
			return err
		}
		return tx.Model(&model.StockItem{}).
			Where("id = ?", item.ID).
			Update("current_qty", gorm.Expr("current_qty - ?", dto.QtyIssued)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record issue: %w", err)
	}

	s.hub.Publish(realtime.Event{
		OrganizationID: organizationID,
		Entity:         "issue",
		Action:         "created",
		EntityID:       issue.ID.String(),
	})
	return issue, nil
}

// UpdatePhysicalCount replaces the item's current quantity with the result
// of a physical stock count.
func (s *StockService) UpdatePhysicalCount(ctx context.Context, organizationID, itemCode string, countedQty float64) (*model.StockItem, error) {
	if countedQty < 0 {
		return nil, errors.New("counted quantity cannot be negative")
	}
	item, err := s.GetItemByCode(ctx, organizationID, itemCode)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("current_qty", countedQty).Error; err != nil {
		return nil, fmt.Errorf("failed to update physical count: %w", err)
	}
	item.CurrentQty = countedQty

	s.hub.Publish(realtime.Event{
		OrganizationID: organizationID,
		Entity:         "stock_item",
		Action:         "counted",
		EntityID:       item.ID.String(),
	})
	return item, nil
}
