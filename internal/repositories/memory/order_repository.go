package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewOrderRepository() interfaces.OrderRepository {
	return &orderRepository{orders: make(map[string]*models.Order)}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.OrderNumber]; ok {
		return &interfaces.DuplicateKeyError{Field: "order_number"}
	}

	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.OrderNumber] = cloneOrder(order)
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.find(func(o *models.Order) bool { return o.ID == id })
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error) {
	return r.find(func(o *models.Order) bool {
		return sessionID != "" && o.StripeCheckoutSessionID == sessionID
	})
}

func (r *orderRepository) List(ctx context.Context, filter *models.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Order
	for _, o := range r.orders {
		if filter != nil {
			if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
				continue
			}
			if filter.OrderStatus != "" && o.OrderStatus != filter.OrderStatus {
				continue
			}
			if filter.CustomerEmail != "" && o.CustomerEmail != filter.CustomerEmail {
				continue
			}
		}
		matched = append(matched, cloneOrder(o))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, params), int64(len(matched)), nil
}

func (r *orderRepository) SetCheckoutSession(ctx context.Context, orderNumber, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return interfaces.ErrNotFound
	}
	order.StripeCheckoutSessionID = sessionID
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderNumber, paymentIntentID string, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return false, interfaces.ErrNotFound
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAt = &paidAt
	order.UpdatedAt = paidAt
	if paymentIntentID != "" {
		order.StripePaymentIntentID = paymentIntentID
	}
	return true, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderNumber string, update *models.OrderStatusUpdate) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if update.OrderStatus != "" {
		order.OrderStatus = update.OrderStatus
	}
	if update.PaymentStatus != "" {
		order.PaymentStatus = update.PaymentStatus
	}
	if update.AdminNotes != "" {
		order.AdminNotes = update.AdminNotes
	}
	order.UpdatedAt = time.Now().UTC()
	return cloneOrder(order), nil
}

func (r *orderRepository) find(match func(*models.Order) bool) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if match(o) {
			return cloneOrder(o), nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	clone.Items = append([]models.OrderItem(nil), o.Items...)
	if o.PaidAt != nil {
		paidAt := *o.PaidAt
		clone.PaidAt = &paidAt
	}
	return &clone
}

// page applies skip/limit to an already sorted slice.
func page[T any](items []T, params *utils.PaginationParams) []T {
	if params == nil {
		return items
	}
	start := params.GetSkip()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
