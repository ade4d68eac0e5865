package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

type BlogPost struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Slug          string             `json:"slug" bson:"slug"`
	Content       string             `json:"content" bson:"content"`
	Excerpt       string             `json:"excerpt" bson:"excerpt"`
	Author        string             `json:"author" bson:"author"`
	FeaturedImage string             `json:"featured_image" bson:"featured_image"`
	Status        PostStatus         `json:"status" bson:"status"`
	Category      string             `json:"category" bson:"category"`
	Tags          []string           `json:"tags" bson:"tags"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
	PublishedAt   *time.Time         `json:"published_at" bson:"published_at"`
}

// Publish moves the post to published, stamping published_at only the
// first time.
func (p *BlogPost) Publish(now time.Time) {
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

type BlogPostFilter struct {
	Status   PostStatus
	Category string
}

type CategoryCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type PostStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
}

// BlogPostSummary is the listing projection of a post.
type BlogPostSummary struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Excerpt       string             `json:"excerpt"`
	Author        string             `json:"author"`
	FeaturedImage string             `json:"featured_image"`
	Status        PostStatus         `json:"status"`
	Category      string             `json:"category"`
	PublishedAt   *time.Time         `json:"published_at"`
}

func (p *BlogPost) Summary() *BlogPostSummary {
	return &BlogPostSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Author:        p.Author,
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		Category:      p.Category,
		PublishedAt:   p.PublishedAt,
	}
}
