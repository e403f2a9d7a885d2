package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packerp/packerp/internal/realtime"
	"github.com/packerp/packerp/internal/workflow/model"
)

// OrderService manages production orders.
type OrderService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewOrderService(db *gorm.DB, hub *realtime.Hub) *OrderService {
	return &OrderService{db: db, hub: hub}
}

// CreateOrder creates a production order with a generated UIORN.
func (s *OrderService) CreateOrder(ctx context.Context, organizationID string, req *model.CreateOrderDTO) (*model.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if req.ItemCode == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}
	if req.OrderQuantity <= 0 {
		return nil, fmt.Errorf("order quantity must be positive")
	}

	order := &model.Order{
		OrganizationID: organizationID,
		UIORN:          generateUIORN(),
		ItemCode:       req.ItemCode,
		OrderQuantity:  req.OrderQuantity,
		Status:         model.OrderStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.hub.Publish(realtime.Event{
		Entity:         "orders",
		Action:         "created",
		OrganizationID: organizationID,
		EntityID:       order.ID.String(),
	})
	return order, nil
}

// GetOrderByID retrieves an order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order ID cannot be nil")
	}

	var order model.Order
	result := s.db.WithContext(ctx).First(&order, "id = ?", orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s not found", orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &order, nil
}

// GetOrdersByOrganization returns a page of the organization's orders, newest first.
func (s *OrderService) GetOrdersByOrganization(ctx context.Context, organizationID string, offset, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus sets the order status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("order ID cannot be nil")
	}

	result := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// generateUIORN produces a unique internal order reference number,
// e.g. PKG-2026-3F9A2C1B.
func generateUIORN() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PKG-%d-%s", time.Now().UTC().Year(), suffix)
}
