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

type blogPostRepository struct {
	collection *mongo.Collection
}

func NewBlogPostRepository(db *mongo.Database) interfaces.BlogPostRepository {
	return &blogPostRepository{
		collection: db.Collection("blog_posts"),
	}
}

func (r *blogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		post.ID = primitive.NilObjectID
		return translateError(err, "create blog post")
	}
	return nil
}

func (r *blogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return translateError(err, "update blog post")
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *blogPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err, "delete blog post")
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *blogPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *blogPostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *blogPostRepository) List(ctx context.Context, filter *models.BlogPostFilter, params *utils.PaginationParams) ([]*models.BlogPost, int64, error) {
	query := bson.M{}
	sortField := "created_at"
	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
			if filter.Status == models.PostStatusPublished {
				sortField = "published_at"
			}
		}
		if filter.Category != "" {
			query["category"] = filter.Category
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateError(err, "count blog posts")
	}

	cursor, err := r.collection.Find(ctx, query, params.FindOptions(sortField, "_id"))
	if err != nil {
		return nil, 0, translateError(err, "find blog posts")
	}
	defer cursor.Close(ctx)

	var posts []*models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, translateError(err, "decode blog posts")
	}
	return posts, total, nil
}

func (r *blogPostRepository) Categories(ctx context.Context) ([]*models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":   models.PostStatusPublished,
			"category": bson.M{"$nin": bson.A{nil, ""}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err, "aggregate categories")
	}
	defer cursor.Close(ctx)

	categories := []*models.CategoryCount{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, translateError(err, "decode categories")
	}
	return categories, nil
}

func (r *blogPostRepository) Stats(ctx context.Context) (*models.PostStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, translateError(err, "aggregate post stats")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.PostStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translateError(err, "decode post stats")
	}

	stats := &models.PostStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.PostStatusPublished:
			stats.Published = row.Count
		case models.PostStatusDraft:
			stats.Drafts = row.Count
		}
	}
	return stats, nil
}

func (r *blogPostRepository) findOne(ctx context.Context, filter bson.M) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.collection.FindOne(ctx, filter).Decode(&post); err != nil {
		return nil, translateError(err, "get blog post")
	}
	return &post, nil
}
