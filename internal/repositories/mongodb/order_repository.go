package mongodb

import (
	"context"
	"time"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) interfaces.OrderRepository {
	return &orderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		order.ID = primitive.NilObjectID
		return translateError(err, "create order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"order_number": orderNumber})
}

func (r *orderRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"stripe_checkout_session_id": sessionID})
}

func (r *orderRepository) List(ctx context.Context, filter *models.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.PaymentStatus != "" {
			query["payment_status"] = filter.PaymentStatus
		}
		if filter.OrderStatus != "" {
			query["order_status"] = filter.OrderStatus
		}
		if filter.CustomerEmail != "" {
			query["customer_email"] = filter.CustomerEmail
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateError(err, "count orders")
	}

	cursor, err := r.collection.Find(ctx, query, params.FindOptions("created_at"))
	if err != nil {
		return nil, 0, translateError(err, "find orders")
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, translateError(err, "decode orders")
	}
	return orders, total, nil
}

func (r *orderRepository) SetCheckoutSession(ctx context.Context, orderNumber, sessionID string) error {
	return r.updateOne(ctx, bson.M{"order_number": orderNumber}, bson.M{
		"stripe_checkout_session_id": sessionID,
		"updated_at":                 time.Now().UTC(),
	})
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderNumber, paymentIntentID string, paidAt time.Time) (bool, error) {
	set := bson.M{
		"payment_status": models.PaymentStatusPaid,
		"paid_at":        paidAt,
		"updated_at":     paidAt,
	}
	if paymentIntentID != "" {
		set["stripe_payment_intent_id"] = paymentIntentID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"order_number": orderNumber, "payment_status": models.PaymentStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, translateError(err, "mark order paid")
	}
	if result.MatchedCount == 0 {
		// Distinguish an unknown order from one that already moved on.
		if _, err := r.GetByOrderNumber(ctx, orderNumber); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderNumber string, update *models.OrderStatusUpdate) (*models.Order, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.OrderStatus != "" {
		set["order_status"] = update.OrderStatus
	}
	if update.PaymentStatus != "" {
		set["payment_status"] = update.PaymentStatus
	}
	if update.AdminNotes != "" {
		set["admin_notes"] = update.AdminNotes
	}

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"order_number": orderNumber},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, translateError(err, "update order status")
	}
	return &order, nil
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, translateError(err, "get order")
	}
	return &order, nil
}

func (r *orderRepository) updateOne(ctx context.Context, filter, set bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return translateError(err, "update order")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
