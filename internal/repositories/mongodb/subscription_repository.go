package mongodb

import (
	"context"
	"errors"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) interfaces.SubscriptionRepository {
	return &subscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	now := time.Now().UTC()
	subscription.ID = primitive.NewObjectID()
	subscription.CreatedAt = now
	subscription.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, subscription); err != nil {
		subscription.ID = primitive.NilObjectID
		return translateError(err, "create subscription")
	}
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *subscriptionRepository) GetBySubscriptionNumber(ctx context.Context, number string) (*models.Subscription, error) {
	return r.findOne(ctx, bson.M{"subscription_number": number})
}

func (r *subscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	return r.findOne(ctx, bson.M{"stripe_subscription_id": stripeSubscriptionID})
}

func (r *subscriptionRepository) List(ctx context.Context, filter *models.SubscriptionFilter, params *utils.PaginationParams) ([]*models.Subscription, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.CustomerEmail != "" {
			query["customer_email"] = filter.CustomerEmail
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateError(err, "count subscriptions")
	}

	cursor, err := r.collection.Find(ctx, query, params.FindOptions("created_at"))
	if err != nil {
		return nil, 0, translateError(err, "find subscriptions")
	}
	defer cursor.Close(ctx)

	var subscriptions []*models.Subscription
	if err := cursor.All(ctx, &subscriptions); err != nil {
		return nil, 0, translateError(err, "decode subscriptions")
	}
	return subscriptions, total, nil
}

func (r *subscriptionRepository) SetCheckoutSession(ctx context.Context, number, sessionID, priceID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"subscription_number": number},
		bson.M{"$set": bson.M{
			"stripe_checkout_session_id": sessionID,
			"stripe_price_id":            priceID,
			"updated_at":                 time.Now().UTC(),
		}},
	)
	if err != nil {
		return translateError(err, "update subscription")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, number string, activation *models.SubscriptionActivation) (bool, error) {
	current, err := r.GetBySubscriptionNumber(ctx, number)
	if err != nil {
		return false, err
	}
	if current.Status != models.SubscriptionStatusPending {
		return false, nil
	}

	next := current.Frequency.NextBillingDate(activation.ActivatedAt)
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"subscription_number": number, "status": models.SubscriptionStatusPending},
		bson.M{"$set": bson.M{
			"status":                 models.SubscriptionStatusActive,
			"stripe_subscription_id": activation.StripeSubscriptionID,
			"stripe_customer_id":     activation.StripeCustomerID,
			"next_billing_date":      next,
			"updated_at":             activation.ActivatedAt,
		}},
	)
	if err != nil {
		return false, translateError(err, "activate subscription")
	}
	return result.ModifiedCount > 0, nil
}

func (r *subscriptionRepository) Cancel(ctx context.Context, stripeSubscriptionID string, cancelledAt time.Time) (*models.Subscription, bool, error) {
	var subscription models.Subscription
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"stripe_subscription_id": stripeSubscriptionID,
			"status":                 bson.M{"$ne": models.SubscriptionStatusCancelled},
		},
		bson.M{"$set": bson.M{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": cancelledAt,
			"updated_at":   cancelledAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&subscription)
	if err == nil {
		return &subscription, true, nil
	}

	err = translateError(err, "cancel subscription")
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, false, err
	}

	existing, err := r.GetByStripeSubscriptionID(ctx, stripeSubscriptionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *subscriptionRepository) findOne(ctx context.Context, filter bson.M) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.collection.FindOne(ctx, filter).Decode(&subscription); err != nil {
		return nil, translateError(err, "get subscription")
	}
	return &subscription, nil
}
