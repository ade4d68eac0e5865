package services

import (
	"context"
	"errors"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"
)

type OrderList struct {
	Orders []*models.Order `json:"orders"`
	*utils.PaginationMeta
}

type SubscriptionList struct {
	Subscriptions []*models.Subscription `json:"subscriptions"`
	*utils.PaginationMeta
}

// OrderService is the operator view over orders and subscriptions.
type OrderService interface {
	ListOrders(ctx context.Context, filter *models.OrderFilter, params *utils.PaginationParams) (*OrderList, error)
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, req *validators.OrderStatusUpdateRequest) (*models.Order, error)
	ListSubscriptions(ctx context.Context, filter *models.SubscriptionFilter, params *utils.PaginationParams) (*SubscriptionList, error)
	GetSubscription(ctx context.Context, number string) (*models.Subscription, error)
}

type orderService struct {
	orderRepo        interfaces.OrderRepository
	subscriptionRepo interfaces.SubscriptionRepository
	logger           *logger.Logger
}

func NewOrderService(orderRepo interfaces.OrderRepository, subscriptionRepo interfaces.SubscriptionRepository, logger *logger.Logger) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderFilter, params *utils.PaginationParams) (*OrderList, error) {
	if filter != nil && filter.PaymentStatus != "" && !filter.PaymentStatus.IsValid() {
		return nil, utils.NewValidationError("Invalid payment_status filter")
	}
	orders, total, err := s.orderRepo.List(ctx, filter, params)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return &OrderList{Orders: orders, PaginationMeta: utils.CreatePaginationMeta(params, total)}, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Order not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderNumber string, req *validators.OrderStatusUpdateRequest) (*models.Order, error) {
	order, err := s.orderRepo.UpdateStatus(ctx, orderNumber, &models.OrderStatusUpdate{
		OrderStatus:   models.OrderStatus(req.OrderStatus),
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		AdminNotes:    req.AdminNotes,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Order not found")
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithContext(ctx).LogOrderEvent(orderNumber, "status_updated", map[string]interface{}{
		"order_status":   order.OrderStatus,
		"payment_status": order.PaymentStatus,
	})
	return order, nil
}

func (s *orderService) ListSubscriptions(ctx context.Context, filter *models.SubscriptionFilter, params *utils.PaginationParams) (*SubscriptionList, error) {
	subs, total, err := s.subscriptionRepo.List(ctx, filter, params)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}
	return &SubscriptionList{Subscriptions: subs, PaginationMeta: utils.CreatePaginationMeta(params, total)}, nil
}

func (s *orderService) GetSubscription(ctx context.Context, number string) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetBySubscriptionNumber(ctx, number)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Subscription not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return sub, nil
}
