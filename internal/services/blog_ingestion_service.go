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
)

// Subject commands understood by the inbound mail pipeline.
const (
	subjectDelete = "[DELETE]"
	subjectDraft  = "[DRAFT]"
)

type IngestResult struct {
	Success bool                    `json:"success"`
	Action  BlogAction              `json:"action"`
	Slug    string                  `json:"slug,omitempty"`
	Post    *models.BlogPostSummary `json:"post,omitempty"`
}

// IngestCommand is a parsed inbound subject line.
type IngestCommand struct {
	Delete   bool
	Draft    bool
	Title    string
	Category string
	Slug     string
}

type BlogIngestionService interface {
	Ingest(ctx context.Context, req *validators.InboundEmailRequest) (*IngestResult, error)
}

type blogIngestionService struct {
	postRepo      interfaces.BlogPostRepository
	blog          BlogService
	media         MediaService
	notifications NotificationService
	config        *config.BlogConfig
	now           func() time.Time
	logger        *logger.Logger
}

func NewBlogIngestionService(
	postRepo interfaces.BlogPostRepository,
	blog BlogService,
	media MediaService,
	notifications NotificationService,
	cfg *config.BlogConfig,
	logger *logger.Logger,
) BlogIngestionService {
	return &blogIngestionService{
		postRepo:      postRepo,
		blog:          blog,
		media:         media,
		notifications: notifications,
		config:        cfg,
		now:           time.Now,
		logger:        logger,
	}
}

// ParseSubject applies the subject grammar: a case-insensitive [DELETE] or
// [DRAFT] prefix, then an optional leading [Category] token.
func ParseSubject(subject string) *IngestCommand {
	subject = strings.TrimSpace(subject)
	cmd := &IngestCommand{}

	upper := strings.ToUpper(subject)
	if strings.HasPrefix(upper, subjectDelete) {
		cmd.Delete = true
		cmd.Title = strings.TrimSpace(subject[len(subjectDelete):])
		cmd.Slug = utils.Slugify(cmd.Title)
		return cmd
	}
	if strings.HasPrefix(upper, subjectDraft) {
		cmd.Draft = true
		subject = strings.TrimSpace(subject[len(subjectDraft):])
	}

	if strings.HasPrefix(subject, "[") {
		if end := strings.Index(subject, "]"); end > 0 {
			cmd.Category = strings.TrimSpace(subject[1:end])
			subject = strings.TrimSpace(subject[end+1:])
		}
	}

	cmd.Title = subject
	cmd.Slug = utils.Slugify(subject)
	return cmd
}

func (s *blogIngestionService) Ingest(ctx context.Context, req *validators.InboundEmailRequest) (*IngestResult, error) {
	msg := req.Message()
	cmd := ParseSubject(msg.Subject)
	log := s.logger.WithContext(ctx).WithField("subject", msg.Subject)

	if cmd.Slug == "" {
		return nil, utils.NewValidationError("Subject must contain a title")
	}
	if cmd.Delete {
		return s.delete(ctx, cmd)
	}

	htmlBody, textBody := msg.Body()
	content := htmlBody
	if strings.TrimSpace(content) == "" {
		content = utils.TextToHTML(textBody)
	}
	image := s.featuredImage(ctx, msg.Attachments)
	now := s.now().UTC()

	existing, err := s.postRepo.GetBySlug(ctx, cmd.Slug)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, utils.NewInternalError(err)
	}

	if existing != nil {
		action := BlogActionUpdated
		existing.Title = cmd.Title
		existing.Content = content
		existing.Excerpt = utils.Excerpt(content, s.config.ExcerptLength)
		existing.Category = cmd.Category
		existing.UpdatedAt = now
		if image != "" {
			existing.FeaturedImage = image
		}
		if !cmd.Draft && existing.Status == models.PostStatusDraft {
			existing.Publish(now)
			action = BlogActionPublished
		}
		if err := s.postRepo.Update(ctx, existing); err != nil {
			return nil, mapPostWriteError(err)
		}

		log.WithField("slug", existing.Slug).Info("Updated blog post from inbound email")
		s.blog.InvalidateCache(ctx)
		s.notify(ctx, action, existing)
		return &IngestResult{Success: true, Action: BlogActionUpdated, Post: existing.Summary()}, nil
	}

	post := &models.BlogPost{
		Title:         cmd.Title,
		Slug:          cmd.Slug,
		Content:       content,
		Excerpt:       utils.Excerpt(content, s.config.ExcerptLength),
		Author:        s.config.DefaultAuthor,
		FeaturedImage: image,
		Status:        models.PostStatusDraft,
		Category:      cmd.Category,
		Tags:          []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !cmd.Draft {
		post.Publish(now)
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, mapPostWriteError(err)
	}

	log.WithFields(map[string]interface{}{"slug": post.Slug, "status": post.Status}).Info("Created blog post from inbound email")
	s.blog.InvalidateCache(ctx)
	s.notify(ctx, createAction(post), post)
	return &IngestResult{Success: true, Action: BlogActionCreated, Post: post.Summary()}, nil
}

func (s *blogIngestionService) delete(ctx context.Context, cmd *IngestCommand) (*IngestResult, error) {
	post, err := s.postRepo.GetBySlug(ctx, cmd.Slug)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("Post con slug \"%s\" no encontrado", cmd.Slug))
		}
		return nil, utils.NewInternalError(err)
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("Post con slug \"%s\" no encontrado", cmd.Slug))
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithContext(ctx).WithField("slug", cmd.Slug).Info("Deleted blog post from inbound email")
	s.blog.InvalidateCache(ctx)
	s.notify(ctx, BlogActionDeleted, post)
	return &IngestResult{Success: true, Action: BlogActionDeleted, Slug: cmd.Slug}, nil
}

// featuredImage picks the first attachment URL, mirrored into storage when
// that is enabled. A failed mirror keeps the relay URL.
func (s *blogIngestionService) featuredImage(ctx context.Context, attachments []validators.InboundAttachment) string {
	if len(attachments) == 0 || attachments[0].URL == "" {
		return ""
	}
	source := attachments[0].URL
	if s.media == nil {
		return source
	}
	mirrored, err := s.media.MirrorRemote(ctx, source)
	if err != nil {
		s.logger.WithError(err).WithField("url", source).Warn("Failed to mirror inbound attachment")
		return source
	}
	return mirrored
}

func (s *blogIngestionService) notify(ctx context.Context, action BlogAction, post *models.BlogPost) {
	if s.notifications != nil {
		s.notifications.BlogEvent(ctx, action, post)
	}
}
