package handlers

import (
	"net/http"
	"strings"

	"artisan/internal/services"
	"artisan/internal/utils"

	"github.com/gin-gonic/gin"
)

// BlogHandler serves the public, read-only side of the blog.
type BlogHandler struct {
	blogService services.BlogService
	pageSize    int
}

func NewBlogHandler(blogService services.BlogService, pageSize int) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		pageSize:    pageSize,
	}
}

func (h *BlogHandler) ListPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pageSize)
	category := strings.TrimSpace(c.Query("category"))

	list, err := h.blogService.ListPublished(c.Request.Context(), category, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) GetCategories(c *gin.Context) {
	categories, err := h.blogService.Categories(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
