package interfaces

import (
	"context"
	"time"

	"artisan/internal/models"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error)
	GetBySubscriptionNumber(ctx context.Context, number string) (*models.Subscription, error)
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error)
	List(ctx context.Context, filter *models.SubscriptionFilter, params *utils.PaginationParams) ([]*models.Subscription, int64, error)

	SetCheckoutSession(ctx context.Context, number, sessionID, priceID string) error

	// Activate moves a pending subscription to active and records the
	// provider ids. It reports false when the subscription was not pending.
	Activate(ctx context.Context, number string, activation *models.SubscriptionActivation) (bool, error)

	// Cancel stamps cancelled_at on a subscription that is not already
	// cancelled, reporting false otherwise.
	Cancel(ctx context.Context, stripeSubscriptionID string, cancelledAt time.Time) (*models.Subscription, bool, error)
}
