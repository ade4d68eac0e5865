package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"artisan/internal/middleware"
	"artisan/internal/models"
	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService  services.AuthService
	blogService  services.BlogService
	mediaService services.MediaService
	pageSize     int
}

func NewAdminHandler(
	authService services.AuthService,
	blogService services.BlogService,
	mediaService services.MediaService,
	pageSize int,
) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		blogService:  blogService,
		mediaService: mediaService,
		pageSize:     pageSize,
	}
}

// Login issues a bearer token for the blog administrator.
func (h *AdminHandler) Login(c *gin.Context) {
	var req validators.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateAdminLogin(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyToken runs behind AdminRequired, so reaching it means the token is good.
func (h *AdminHandler) VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "username": middleware.AdminUsername(c)})
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pageSize)
	status := models.PostStatus(c.Query("status"))

	list, err := h.blogService.ListPosts(c.Request.Context(), status, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var req validators.BlogPostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateBlogPostCreate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	var req validators.BlogPostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateBlogPostUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	post, err := h.blogService.DeletePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Post %q eliminado correctamente", post.Title),
	})
}

func (h *AdminHandler) PublishPost(c *gin.Context) {
	post, err := h.blogService.PublishPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// UploadImage stores a featured image from the multipart "file" field.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Error reading uploaded file")
		return
	}
	defer file.Close()

	resp, err := h.mediaService.Upload(c.Request.Context(), &services.MediaUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStorageDisabled):
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Almacenamiento de imágenes no configurado")
		case errors.Is(err, services.ErrMediaTooLarge):
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "La imagen supera el tamaño máximo permitido")
		case errors.Is(err, services.ErrUnsupportedMedia):
			utils.BadRequestResponse(c, "Formato de imagen no soportado")
		default:
			utils.HandleError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "url": resp.URL, "key": resp.Key})
}
