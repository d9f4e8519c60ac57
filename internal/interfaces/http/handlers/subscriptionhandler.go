package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	billingusecases "github.com/hakot-io/hakot/internal/application/billing/usecases"
	"github.com/hakot-io/hakot/internal/application/subscription/usecases"
	"github.com/hakot-io/hakot/internal/interfaces/http/middleware"
	"github.com/hakot-io/hakot/internal/shared/logger"
	"github.com/hakot-io/hakot/internal/shared/utils"
)

// SubscriptionHandler handles subscription lifecycle operations.
type SubscriptionHandler struct {
	createUseCase     *usecases.CreateSubscriptionUseCase
	getUseCase        *usecases.GetSubscriptionUseCase
	listUserUseCase   *usecases.ListUserSubscriptionsUseCase
	cancelUseCase     *usecases.CancelSubscriptionUseCase
	suspendUseCase    *usecases.SuspendSubscriptionUseCase
	renewUseCase      *usecases.RenewSubscriptionUseCase
	reactivateUseCase *usecases.ReactivateSubscriptionUseCase
	listInvoicesUC    *billingusecases.ListInvoicesUseCase
	logger            logger.Interface
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(
	createUC *usecases.CreateSubscriptionUseCase,
	getUC *usecases.GetSubscriptionUseCase,
	listUserUC *usecases.ListUserSubscriptionsUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	suspendUC *usecases.SuspendSubscriptionUseCase,
	renewUC *usecases.RenewSubscriptionUseCase,
	reactivateUC *usecases.ReactivateSubscriptionUseCase,
	listInvoicesUC *billingusecases.ListInvoicesUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:     createUC,
		getUseCase:        getUC,
		listUserUseCase:   listUserUC,
		cancelUseCase:     cancelUC,
		suspendUseCase:    suspendUC,
		renewUseCase:      renewUC,
		reactivateUseCase: reactivateUC,
		listInvoicesUC:    listInvoicesUC,
		logger:            logger,
	}
}

// CreateSubscriptionRequest is the request to sign up for collection
// service.
type CreateSubscriptionRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// CancelSubscriptionRequest carries the cancellation reason.
type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"required" validate:"required,min=1,max=255"`
}

// ReactivateSubscriptionRequest optionally carries payment details
// collected at reactivation time.
type ReactivateSubscriptionRequest struct {
	AmountCentavos int64  `json:"amount_centavos"`
	Method         string `json:"method" binding:"omitempty,oneof=cash gateway"`
	Reference      string `json:"reference"`
}

// CreateSubscription handles POST /api/v1/subscriptions
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID: userID,
		PlanID: req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created successfully")
}

// GetSubscription handles GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	subID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionCommand{
		SubscriptionID: subID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Subscription)
}

// ListSubscriptions handles GET /api/v1/subscriptions
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.listUserUseCase.Execute(c.Request.Context(), usecases.ListUserSubscriptionsCommand{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Subscriptions)
}

// CancelSubscription handles POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	subID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SubscriptionID: subID,
		Reason:         req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result.Subscription)
}

// SuspendSubscription handles POST /api/v1/subscriptions/:id/suspend
func (h *SubscriptionHandler) SuspendSubscription(c *gin.Context) {
	subID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.suspendUseCase.Execute(c.Request.Context(), usecases.SuspendSubscriptionCommand{
		SubscriptionID: subID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription suspended", result.Subscription)
}

// RenewSubscription handles POST /api/v1/subscriptions/:id/renew
func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	subID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.renewUseCase.Execute(c.Request.Context(), usecases.RenewSubscriptionCommand{
		SubscriptionID: subID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Renewal invoice created", result)
}

// ReactivateSubscription handles POST /api/v1/subscriptions/reactivate
func (h *SubscriptionHandler) ReactivateSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req ReactivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var paymentData *usecases.PaymentData
	if req.AmountCentavos > 0 {
		method := req.Method
		if method == "" {
			method = "cash"
		}
		paymentData = &usecases.PaymentData{
			AmountCentavos:  req.AmountCentavos,
			Method:          method,
			ReferenceNumber: req.Reference,
		}
	}

	result, err := h.reactivateUseCase.Execute(c.Request.Context(), usecases.ReactivateSubscriptionCommand{
		UserID:      userID,
		PaymentData: paymentData,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription reactivated", result)
}

// ListInvoices handles GET /api/v1/subscriptions/:id/invoices
func (h *SubscriptionHandler) ListInvoices(c *gin.Context) {
	subID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.listInvoicesUC.Execute(c.Request.Context(), billingusecases.ListInvoicesCommand{
		SubscriptionID: subID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Invoices)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id64 == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID")
		return 0, false
	}
	return uint(id64), true
}
