package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"artisan/internal/services"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	inboundSignatureHeader = "X-Mailin-Signature"
	maxInboundBodyBytes    = 10 << 20
)

// InboundEmailHandler receives relayed emails that create, update or delete
// blog posts.
type InboundEmailHandler struct {
	ingestionService services.BlogIngestionService
	webhookKey       string
	requireSignature bool
	logger           *logger.Logger
}

// NewInboundEmailHandler builds the handler. Without a key the signature
// check is skipped, unless requireSignature is set, in which case every
// request is rejected.
func NewInboundEmailHandler(ingestionService services.BlogIngestionService, webhookKey string, requireSignature bool, log *logger.Logger) *InboundEmailHandler {
	return &InboundEmailHandler{
		ingestionService: ingestionService,
		webhookKey:       webhookKey,
		requireSignature: requireSignature,
		logger:           log,
	}
}

func (h *InboundEmailHandler) HandleInboundEmail(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInboundBodyBytes))
	if err != nil {
		utils.BadRequestResponse(c, "Error reading request body")
		return
	}

	if !h.verify(c, body) {
		h.logger.LogSecurityEvent("inbound_email_signature_rejected", "medium", map[string]interface{}{
			"ip_address": c.ClientIP(),
		})
		utils.UnauthorizedResponse(c, utils.ErrInvalidSignature)
		return
	}

	var req validators.InboundEmailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidJSON)
		return
	}
	if errs := validators.ValidateInboundEmail(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	result, err := h.ingestionService.Ingest(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InboundEmailHandler) verify(c *gin.Context, body []byte) bool {
	if h.webhookKey == "" {
		return !h.requireSignature
	}
	return utils.VerifyHMACHex(body, c.GetHeader(inboundSignatureHeader), h.webhookKey)
}
