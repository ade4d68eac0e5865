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

type subscriptionRepository struct {
	mu            sync.RWMutex
	subscriptions map[string]*models.Subscription
}

func NewSubscriptionRepository() interfaces.SubscriptionRepository {
	return &subscriptionRepository{subscriptions: make(map[string]*models.Subscription)}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscriptions[subscription.SubscriptionNumber]; ok {
		return &interfaces.DuplicateKeyError{Field: "subscription_number"}
	}

	now := time.Now().UTC()
	subscription.ID = primitive.NewObjectID()
	subscription.CreatedAt = now
	subscription.UpdatedAt = now
	clone := *subscription
	r.subscriptions[subscription.SubscriptionNumber] = &clone
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	return r.find(func(s *models.Subscription) bool { return s.ID == id })
}

func (r *subscriptionRepository) GetBySubscriptionNumber(ctx context.Context, number string) (*models.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subscription, ok := r.subscriptions[number]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *subscription
	return &clone, nil
}

func (r *subscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	return r.find(func(s *models.Subscription) bool {
		return stripeSubscriptionID != "" && s.StripeSubscriptionID == stripeSubscriptionID
	})
}

func (r *subscriptionRepository) List(ctx context.Context, filter *models.SubscriptionFilter, params *utils.PaginationParams) ([]*models.Subscription, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Subscription
	for _, s := range r.subscriptions {
		if filter != nil {
			if filter.Status != "" && s.Status != filter.Status {
				continue
			}
			if filter.CustomerEmail != "" && s.CustomerEmail != filter.CustomerEmail {
				continue
			}
		}
		clone := *s
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, params), int64(len(matched)), nil
}

func (r *subscriptionRepository) SetCheckoutSession(ctx context.Context, number, sessionID, priceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscription, ok := r.subscriptions[number]
	if !ok {
		return interfaces.ErrNotFound
	}
	subscription.StripeCheckoutSessionID = sessionID
	subscription.StripePriceID = priceID
	subscription.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, number string, activation *models.SubscriptionActivation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscription, ok := r.subscriptions[number]
	if !ok {
		return false, interfaces.ErrNotFound
	}
	if subscription.Status != models.SubscriptionStatusPending {
		return false, nil
	}

	next := subscription.Frequency.NextBillingDate(activation.ActivatedAt)
	subscription.Status = models.SubscriptionStatusActive
	subscription.StripeSubscriptionID = activation.StripeSubscriptionID
	subscription.StripeCustomerID = activation.StripeCustomerID
	subscription.NextBillingDate = &next
	subscription.UpdatedAt = activation.ActivatedAt
	return true, nil
}

func (r *subscriptionRepository) Cancel(ctx context.Context, stripeSubscriptionID string, cancelledAt time.Time) (*models.Subscription, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.subscriptions {
		if stripeSubscriptionID == "" || s.StripeSubscriptionID != stripeSubscriptionID {
			continue
		}
		if s.Status == models.SubscriptionStatusCancelled {
			clone := *s
			return &clone, false, nil
		}
		s.Status = models.SubscriptionStatusCancelled
		s.CancelledAt = &cancelledAt
		s.UpdatedAt = cancelledAt
		clone := *s
		return &clone, true, nil
	}
	return nil, false, interfaces.ErrNotFound
}

func (r *subscriptionRepository) find(match func(*models.Subscription) bool) (*models.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.subscriptions {
		if match(s) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, interfaces.ErrNotFound
}
