package handlers

import (
	"net/http"
	"strings"

	"artisan/internal/models"
	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/gin-gonic/gin"
)

// OrderHandler is the operator view over orders and subscriptions.
type OrderHandler struct {
	orderService services.OrderService
	pageSize     int
}

func NewOrderHandler(orderService services.OrderService, pageSize int) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		pageSize:     pageSize,
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pageSize)
	filter := &models.OrderFilter{
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		OrderStatus:   models.OrderStatus(c.Query("order_status")),
		CustomerEmail: utils.NormalizeEmail(c.Query("email")),
	}

	list, err := h.orderService.ListOrders(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), strings.ToUpper(c.Param("order_number")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req validators.OrderStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateOrderStatusUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), strings.ToUpper(c.Param("order_number")), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrderHandler) ListSubscriptions(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pageSize)
	filter := &models.SubscriptionFilter{
		Status:        models.SubscriptionStatus(c.Query("status")),
		CustomerEmail: utils.NormalizeEmail(c.Query("email")),
	}

	list, err := h.orderService.ListSubscriptions(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) GetSubscription(c *gin.Context) {
	sub, err := h.orderService.GetSubscription(c.Request.Context(), strings.ToUpper(c.Param("subscription_number")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
