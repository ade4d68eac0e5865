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

type blogPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.BlogPost
}

func NewBlogPostRepository() interfaces.BlogPostRepository {
	return &blogPostRepository{posts: make(map[primitive.ObjectID]*models.BlogPost)}
}

func (r *blogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(post.Slug, primitive.NilObjectID) {
		return &interfaces.DuplicateKeyError{Field: "slug"}
	}

	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt
	if post.Tags == nil {
		post.Tags = []string{}
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *blogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return interfaces.ErrNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return &interfaces.DuplicateKeyError{Field: "slug"}
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *blogPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *blogPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return clonePost(post), nil
}

func (r *blogPostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts {
		if post.Slug == slug {
			return clonePost(post), nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *blogPostRepository) List(ctx context.Context, filter *models.BlogPostFilter, params *utils.PaginationParams) ([]*models.BlogPost, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byPublished := filter != nil && filter.Status == models.PostStatusPublished

	var matched []*models.BlogPost
	for _, post := range r.posts {
		if filter != nil {
			if filter.Status != "" && post.Status != filter.Status {
				continue
			}
			if filter.Category != "" && post.Category != filter.Category {
				continue
			}
		}
		matched = append(matched, clonePost(post))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := sortTime(matched[i], byPublished), sortTime(matched[j], byPublished)
		if a.Equal(b) {
			return matched[i].ID.Hex() > matched[j].ID.Hex()
		}
		return a.After(b)
	})
	return page(matched, params), int64(len(matched)), nil
}

func (r *blogPostRepository) Categories(ctx context.Context) ([]*models.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, post := range r.posts {
		if post.Status == models.PostStatusPublished && post.Category != "" {
			counts[post.Category]++
		}
	}

	categories := make([]*models.CategoryCount, 0, len(counts))
	for name, count := range counts {
		categories = append(categories, &models.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count == categories[j].Count {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].Count > categories[j].Count
	})
	return categories, nil
}

func (r *blogPostRepository) Stats(ctx context.Context) (*models.PostStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.PostStats{Total: int64(len(r.posts))}
	for _, post := range r.posts {
		switch post.Status {
		case models.PostStatusPublished:
			stats.Published++
		case models.PostStatusDraft:
			stats.Drafts++
		}
	}
	return stats, nil
}

func (r *blogPostRepository) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, post := range r.posts {
		if id != except && post.Slug == slug {
			return true
		}
	}
	return false
}

func sortTime(post *models.BlogPost, byPublished bool) time.Time {
	if byPublished && post.PublishedAt != nil {
		return *post.PublishedAt
	}
	return post.CreatedAt
}

func clonePost(p *models.BlogPost) *models.BlogPost {
	clone := *p
	clone.Tags = append([]string{}, p.Tags...)
	if p.PublishedAt != nil {
		publishedAt := *p.PublishedAt
		clone.PublishedAt = &publishedAt
	}
	return &clone
}
