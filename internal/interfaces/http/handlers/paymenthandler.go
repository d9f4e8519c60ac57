package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hakot-io/hakot/internal/application/payment/usecases"
	"github.com/hakot-io/hakot/internal/interfaces/http/middleware"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
	"github.com/hakot-io/hakot/internal/shared/logger"
	"github.com/hakot-io/hakot/internal/shared/utils"
)

// PaymentHandler handles payment collection and gateway callbacks.
type PaymentHandler struct {
	createSourceUseCase   *usecases.CreatePaymentSourceUseCase
	confirmCashUseCase    *usecases.ConfirmCashPaymentUseCase
	handleWebhookUseCase  *usecases.HandleWebhookEventUseCase
	listUnresolvedUseCase *usecases.ListUnresolvedSourcesUseCase
	logger                logger.Interface
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	createSourceUC *usecases.CreatePaymentSourceUseCase,
	confirmCashUC *usecases.ConfirmCashPaymentUseCase,
	handleWebhookUC *usecases.HandleWebhookEventUseCase,
	listUnresolvedUC *usecases.ListUnresolvedSourcesUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createSourceUseCase:   createSourceUC,
		confirmCashUseCase:    confirmCashUC,
		handleWebhookUseCase:  handleWebhookUC,
		listUnresolvedUseCase: listUnresolvedUC,
		logger:                logger,
	}
}

// CreateSourceRequest opens a gateway checkout.
type CreateSourceRequest struct {
	InvoiceID       uint   `json:"invoice_id"`
	AmountCentavos  int64  `json:"amount_centavos" validate:"min=0"`
	Method          string `json:"method" binding:"required" validate:"required,oneof=gcash grab_pay card"`
	RedirectSuccess string `json:"redirect_success" binding:"required,url" validate:"required,url"`
	RedirectFailed  string `json:"redirect_failed" binding:"required,url" validate:"required,url"`
}

// ConfirmCashRequest records a collector-verified cash payment.
type ConfirmCashRequest struct {
	SubscriptionID uint       `json:"subscription_id" binding:"required" validate:"required"`
	AmountCentavos int64      `json:"amount_centavos" binding:"required,gt=0" validate:"required,gt=0"`
	Notes          string     `json:"notes" validate:"max=500"`
	PaymentDate    *time.Time `json:"payment_date"`
}

// WebhookRequest is the gateway's delivery shape.
type WebhookRequest struct {
	SourceID   string                 `json:"source_id" binding:"required"`
	Status     string                 `json:"status" binding:"required"`
	RawPayload map[string]interface{} `json:"raw_payload"`
}

// CreateSource handles POST /api/v1/payments/sources
func (h *PaymentHandler) CreateSource(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createSourceUseCase.Execute(c.Request.Context(), usecases.CreatePaymentSourceCommand{
		InvoiceID:       req.InvoiceID,
		AmountCentavos:  req.AmountCentavos,
		Method:          req.Method,
		RedirectSuccess: req.RedirectSuccess,
		RedirectFailed:  req.RedirectFailed,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Source, "Payment source created")
}

// ConfirmCash handles POST /api/v1/payments/cash
func (h *PaymentHandler) ConfirmCash(c *gin.Context) {
	collectorID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req ConfirmCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.ConfirmCashPaymentCommand{
		SubscriptionID: req.SubscriptionID,
		CollectorID:    collectorID,
		AmountCentavos: req.AmountCentavos,
		Notes:          req.Notes,
		PaymentDate:    req.PaymentDate,
	}

	result, err := h.confirmCashUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment confirmed", result)
}

// Webhook handles POST /api/v1/payments/webhook. Processing errors on a
// well-formed event are logged but acknowledged, so the gateway does not
// retry an event the reconciler already recorded; only malformed
// payloads are rejected.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("malformed webhook payload", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.handleWebhookUseCase.Execute(c.Request.Context(), usecases.HandleWebhookEventCommand{
		SourceID:   req.SourceID,
		Status:     req.Status,
		RawPayload: req.RawPayload,
	})
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Type == apperrors.ErrorTypeBadRequest {
			utils.ErrorResponseWithError(c, err)
			return
		}
		h.logger.Errorw("webhook processing failed",
			"source_id", req.SourceID,
			"status", req.Status,
			"error", err,
		)
		utils.SuccessResponse(c, http.StatusOK, "accepted", gin.H{"processed": false})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"processed":  result.Applied,
		"redelivery": result.Redelivery,
		"unresolved": result.Unresolved,
	})
}

// ListUnresolved handles GET /api/v1/payments/sources/unresolved
func (h *PaymentHandler) ListUnresolved(c *gin.Context) {
	result, err := h.listUnresolvedUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Sources)
}
