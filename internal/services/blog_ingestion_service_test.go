package services

import (
	"context"
	"testing"

	"artisan/internal/models"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/repositories/memory"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    IngestCommand
	}{
		{"New post title", IngestCommand{Title: "New post title", Slug: "new-post-title"}},
		{"[Recetas] New post title", IngestCommand{Category: "Recetas", Title: "New post title", Slug: "new-post-title"}},
		{"[DELETE] my-post", IngestCommand{Delete: true, Title: "my-post", Slug: "my-post"}},
		{"[delete]   My Post", IngestCommand{Delete: true, Title: "My Post", Slug: "my-post"}},
		{"[DRAFT] Borrador", IngestCommand{Draft: true, Title: "Borrador", Slug: "borrador"}},
		{"[Draft] [Noticias] Cosecha 2024", IngestCommand{Draft: true, Category: "Noticias", Title: "Cosecha 2024", Slug: "cosecha-2024"}},
		{"Receta [con] corchetes", IngestCommand{Title: "Receta [con] corchetes", Slug: "receta-con-corchetes"}},
		{"  ", IngestCommand{}},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, *ParseSubject(tt.subject))
		})
	}
}

type ingestionFixture struct {
	*testEnv
	posts   interfaces.BlogPostRepository
	blog    BlogService
	service BlogIngestionService
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	env := newTestEnv(t)
	posts := memory.NewBlogPostRepository()
	blog := NewBlogService(posts, cache.NewMemoryCache(), env.notifications, env.cfg.Blog, env.log)
	media := NewMediaService(nil, env.cfg.Storage, env.log)
	return &ingestionFixture{
		testEnv: env,
		posts:   posts,
		blog:    blog,
		service: NewBlogIngestionService(posts, blog, media, env.notifications, env.cfg.Blog, env.log),
	}
}

func TestIngestCreatesPublishedPost(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	result, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{
		Subject:     "[Recetas] Pan de aceite",
		Text:        "Harina, agua y aceite.\n\nAmasar despacio.",
		Attachments: []validators.InboundAttachment{{URL: "https://relay.test/img/pan.jpg", Name: "pan.jpg"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, BlogActionCreated, result.Action)

	post, err := f.posts.GetBySlug(ctx, "pan-de-aceite")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, "Recetas", post.Category)
	assert.Equal(t, "<p>Harina, agua y aceite.</p><p>Amasar despacio.</p>", post.Content)
	assert.Equal(t, "https://relay.test/img/pan.jpg", post.FeaturedImage)
	assert.Equal(t, "Mikel's Earth", post.Author)
	require.NotNil(t, post.PublishedAt)

	assert.Equal(t, []string{"✅ Nuevo post publicado: Pan de aceite"}, f.email.subjects("blog@shop.test"))
}

func TestIngestBatchedPayloadAndDraft(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	result, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{
		Items: []validators.InboundEmailRequest{{Subject: "[DRAFT] Idea suelta", RawHTMLBody: "<p>pendiente</p>"}},
	})
	require.NoError(t, err)
	assert.Equal(t, BlogActionCreated, result.Action)

	post, err := f.posts.GetBySlug(ctx, "idea-suelta")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, "<p>pendiente</p>", post.Content)
	assert.Nil(t, post.PublishedAt)
}

func TestIngestUpdatesExistingPost(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "[DRAFT] Aceite nuevo", HTML: "<p>v1</p>"})
	require.NoError(t, err)

	// A draft marker on a later mail keeps the post in draft.
	_, err = f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "[DRAFT] Aceite nuevo", HTML: "<p>v2</p>"})
	require.NoError(t, err)
	post, err := f.posts.GetBySlug(ctx, "aceite-nuevo")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, "<p>v2</p>", post.Content)

	result, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "[Noticias] Aceite nuevo", HTML: "<p>v3</p>"})
	require.NoError(t, err)
	assert.Equal(t, BlogActionUpdated, result.Action)

	post, err = f.posts.GetBySlug(ctx, "aceite-nuevo")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, "Noticias", post.Category)
	assert.Contains(t, f.email.subjects("blog@shop.test"), "🚀 Borrador publicado: Aceite nuevo")

	list, _, err := f.posts.List(ctx, nil, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIngestDelete(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "My post", Text: "body"})
	require.NoError(t, err)

	// Warm the public cache so the delete has something to invalidate.
	_, err = f.blog.GetPublishedBySlug(ctx, "my-post")
	require.NoError(t, err)

	result, err := f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "[DELETE] my-post"})
	require.NoError(t, err)
	assert.Equal(t, BlogActionDeleted, result.Action)
	assert.Equal(t, "my-post", result.Slug)

	_, err = f.blog.GetPublishedBySlug(ctx, "my-post")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = f.service.Ingest(ctx, &validators.InboundEmailRequest{Subject: "[DELETE] my-post"})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.Equal(t, `Post con slug "my-post" no encontrado`, utils.AsAppError(err).Message)
}

func TestIngestRequiresTitle(t *testing.T) {
	f := newIngestionFixture(t)

	_, err := f.service.Ingest(context.Background(), &validators.InboundEmailRequest{Subject: "[Recetas] !!!"})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}
