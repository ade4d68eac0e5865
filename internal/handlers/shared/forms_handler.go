package handlers

import (
	"net/http"

	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/gin-gonic/gin"
)

// FormsHandler serves the storefront's public forms. Delivery failures are
// logged by the service and do not change the response, except for HORECA
// orders where the owner must be reached.
type FormsHandler struct {
	formsService services.FormsService
}

func NewFormsHandler(formsService services.FormsService) *FormsHandler {
	return &FormsHandler{
		formsService: formsService,
	}
}

func (h *FormsHandler) SendContactMessage(c *gin.Context) {
	var req validators.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateContact(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	if err := h.formsService.SendContactMessage(c.Request.Context(), &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Mensaje enviado correctamente"})
}

func (h *FormsHandler) RequestWorkshopVisit(c *gin.Context) {
	var req validators.WorkshopVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateWorkshopVisit(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	if err := h.formsService.RequestWorkshopVisit(c.Request.Context(), &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Solicitud de visita enviada correctamente"})
}

func (h *FormsHandler) NotifyMe(c *gin.Context) {
	var req validators.NotifyMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateNotifyMe(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	if err := h.formsService.RequestRestockNotice(c.Request.Context(), &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Te avisaremos cuando el producto esté disponible"})
}

func (h *FormsHandler) SubmitHorecaOrder(c *gin.Context) {
	var req validators.HorecaOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateHorecaOrder(&req); len(errs) > 0 {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", errs.First(), errs.Details())
		return
	}

	if err := h.formsService.SubmitHorecaOrder(c.Request.Context(), &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Solicitud enviada correctamente. Recibirás una propuesta en las próximas 24 horas.",
	})
}
