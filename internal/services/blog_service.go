package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artisan/internal/config"
	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	errPostNotFound  = "Post no encontrado"
	errDuplicateSlug = "Ya existe un post con ese título"
)

type PostList struct {
	Posts []*models.BlogPostSummary `json:"posts"`
	*utils.PaginationMeta
}

type AdminPostList struct {
	Posts []*models.BlogPost `json:"posts"`
	*utils.PaginationMeta
	Stats *models.PostStats `json:"stats"`
}

type BlogService interface {
	ListPublished(ctx context.Context, category string, params *utils.PaginationParams) (*PostList, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Categories(ctx context.Context) ([]*models.CategoryCount, error)

	ListPosts(ctx context.Context, status models.PostStatus, params *utils.PaginationParams) (*AdminPostList, error)
	GetPost(ctx context.Context, id string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, req *validators.BlogPostCreateRequest) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id string, req *validators.BlogPostUpdateRequest) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id string) (*models.BlogPost, error)
	PublishPost(ctx context.Context, id string) (*models.BlogPost, error)

	// InvalidateCache drops every cached public blog read.
	InvalidateCache(ctx context.Context)
}

type blogService struct {
	postRepo      interfaces.BlogPostRepository
	cache         CacheService
	notifications NotificationService
	config        *config.BlogConfig
	now           func() time.Time
	logger        *logger.Logger
}

func NewBlogService(
	postRepo interfaces.BlogPostRepository,
	cache CacheService,
	notifications NotificationService,
	cfg *config.BlogConfig,
	logger *logger.Logger,
) BlogService {
	return &blogService{
		postRepo:      postRepo,
		cache:         cache,
		notifications: notifications,
		config:        cfg,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *blogService) ListPublished(ctx context.Context, category string, params *utils.PaginationParams) (*PostList, error) {
	key := fmt.Sprintf("%sposts:%s:%d:%d", blogCachePrefix, strings.ToLower(category), params.Page, params.PerPage)

	var cached PostList
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	filter := &models.BlogPostFilter{Status: models.PostStatusPublished, Category: category}
	posts, total, err := s.postRepo.List(ctx, filter, params)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	list := &PostList{
		Posts:          make([]*models.BlogPostSummary, 0, len(posts)),
		PaginationMeta: utils.CreatePaginationMeta(params, total),
	}
	for _, p := range posts {
		list.Posts = append(list.Posts, p.Summary())
	}

	s.cacheSet(ctx, key, list)
	return list, nil
}

func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	key := blogCachePrefix + "post:" + slug

	var cached models.BlogPost
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError(errPostNotFound)
		}
		return nil, utils.NewInternalError(err)
	}
	if post.Status != models.PostStatusPublished {
		return nil, utils.NewNotFoundError(errPostNotFound)
	}

	s.cacheSet(ctx, key, post)
	return post, nil
}

func (s *blogService) Categories(ctx context.Context) ([]*models.CategoryCount, error) {
	key := blogCachePrefix + "categories"

	var cached []*models.CategoryCount
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := s.postRepo.Categories(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if categories == nil {
		categories = []*models.CategoryCount{}
	}

	s.cacheSet(ctx, key, categories)
	return categories, nil
}

func (s *blogService) ListPosts(ctx context.Context, status models.PostStatus, params *utils.PaginationParams) (*AdminPostList, error) {
	if status != "" && !status.IsValid() {
		return nil, utils.NewValidationError("Invalid status filter")
	}

	posts, total, err := s.postRepo.List(ctx, &models.BlogPostFilter{Status: status}, params)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	stats, err := s.postRepo.Stats(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if posts == nil {
		posts = []*models.BlogPost{}
	}

	return &AdminPostList{
		Posts:          posts,
		PaginationMeta: utils.CreatePaginationMeta(params, total),
		Stats:          stats,
	}, nil
}

func (s *blogService) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NewNotFoundError(errPostNotFound)
	}
	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError(errPostNotFound)
		}
		return nil, utils.NewInternalError(err)
	}
	return post, nil
}

func (s *blogService) CreatePost(ctx context.Context, req *validators.BlogPostCreateRequest) (*models.BlogPost, error) {
	slug := utils.Slugify(req.Title)
	if slug == "" {
		return nil, utils.NewValidationError("Título y contenido son requeridos")
	}

	now := s.now().UTC()
	post := &models.BlogPost{
		Title:         req.Title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       utils.Excerpt(req.Content, s.config.ExcerptLength),
		Author:        req.Author,
		FeaturedImage: req.FeaturedImage,
		Status:        models.PostStatusDraft,
		Category:      req.Category,
		Tags:          cleanTags(req.Tags),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Author == "" {
		post.Author = s.config.DefaultAuthor
	}
	if models.PostStatus(req.Status) == models.PostStatusPublished {
		post.Publish(now)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, mapPostWriteError(err)
	}

	s.afterWrite(ctx, createAction(post), post)
	return post, nil
}

func (s *blogService) UpdatePost(ctx context.Context, id string, req *validators.BlogPostUpdateRequest) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	action := BlogActionUpdated

	if req.Title != nil {
		slug := utils.Slugify(*req.Title)
		if slug == "" {
			return nil, utils.NewValidationError("title must contain letters or digits")
		}
		post.Title = *req.Title
		post.Slug = slug
	}
	if req.Content != nil {
		post.Content = *req.Content
		post.Excerpt = utils.Excerpt(*req.Content, s.config.ExcerptLength)
	}
	if req.Category != nil {
		post.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		post.Tags = cleanTags(*req.Tags)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		switch models.PostStatus(*req.Status) {
		case models.PostStatusPublished:
			if post.Status == models.PostStatusDraft {
				action = BlogActionPublished
			}
			post.Publish(now)
		case models.PostStatusDraft:
			post.Status = models.PostStatusDraft
		}
	}
	post.UpdatedAt = now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, mapPostWriteError(err)
	}

	s.afterWrite(ctx, action, post)
	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError(errPostNotFound)
		}
		return nil, utils.NewInternalError(err)
	}

	s.afterWrite(ctx, BlogActionDeleted, post)
	return post, nil
}

func (s *blogService) PublishPost(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post.Publish(now)
	post.UpdatedAt = now
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, mapPostWriteError(err)
	}

	s.afterWrite(ctx, BlogActionPublished, post)
	return post, nil
}

func (s *blogService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, blogCachePattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate blog cache")
	}
}

func (s *blogService) afterWrite(ctx context.Context, action BlogAction, post *models.BlogPost) {
	s.InvalidateCache(ctx)
	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"action": action,
		"slug":   post.Slug,
		"status": post.Status,
	}).Info("Blog post changed")
	if s.notifications != nil {
		s.notifications.BlogEvent(ctx, action, post)
	}
}

func (s *blogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest) == nil
}

func (s *blogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, blogCacheTTL); err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("Failed to cache blog read")
	}
}

func createAction(post *models.BlogPost) BlogAction {
	if post.Status == models.PostStatusDraft {
		return BlogActionDraft
	}
	return BlogActionCreated
}

func mapPostWriteError(err error) error {
	if interfaces.DuplicateField(err) == "slug" {
		return utils.NewValidationError(errDuplicateSlug)
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		return utils.NewNotFoundError(errPostNotFound)
	}
	return utils.NewInternalError(err)
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		cleaned = append(cleaned, tag)
	}
	return cleaned
}
