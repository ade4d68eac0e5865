package interfaces

import (
	"context"
	"time"

	"artisan/internal/models"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error)

	SetCheckoutSession(ctx context.Context, orderNumber, sessionID string) error

	// MarkPaid moves a pending order to paid. It reports false without error
	// when the order was already past pending.
	MarkPaid(ctx context.Context, orderNumber, paymentIntentID string, paidAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, orderNumber string, update *models.OrderStatusUpdate) (*models.Order, error)
}
