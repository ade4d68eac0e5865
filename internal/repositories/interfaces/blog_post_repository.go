package interfaces

import (
	"context"

	"artisan/internal/models"
	"artisan/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogPostRepository interface {
	// Create and Update return a *DuplicateKeyError on a slug clash.
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)

	// List orders published posts by published_at and everything else by
	// created_at, newest first.
	List(ctx context.Context, filter *models.BlogPostFilter, params *utils.PaginationParams) ([]*models.BlogPost, int64, error)
	Categories(ctx context.Context) ([]*models.CategoryCount, error)
	Stats(ctx context.Context) (*models.PostStats, error)
}
