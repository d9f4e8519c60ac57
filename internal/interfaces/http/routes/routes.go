package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakot-io/hakot/internal/infrastructure/ratelimit"
	"github.com/hakot-io/hakot/internal/interfaces/http/handlers"
	"github.com/hakot-io/hakot/internal/interfaces/http/middleware"
	"github.com/hakot-io/hakot/internal/shared/logger"
)

// Register wires all HTTP routes. The webhook endpoint stays outside the
// auth group: the gateway authenticates by knowing the URL and payload
// shape, and sits behind the rate limiter instead.
func Register(
	router *gin.Engine,
	subscriptionHandler *handlers.SubscriptionHandler,
	paymentHandler *handlers.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
	webhookLimiter ratelimit.Limiter,
	log logger.Interface,
) {
	router.Use(middleware.Recovery(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	v1.POST("/payments/webhook", middleware.RateLimit(webhookLimiter, log), paymentHandler.Webhook)

	authed := v1.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		subs := authed.Group("/subscriptions")
		{
			subs.POST("", subscriptionHandler.CreateSubscription)
			subs.GET("", subscriptionHandler.ListSubscriptions)
			subs.GET("/:id", subscriptionHandler.GetSubscription)
			subs.GET("/:id/invoices", subscriptionHandler.ListInvoices)
			subs.POST("/:id/cancel", subscriptionHandler.CancelSubscription)
			subs.POST("/:id/suspend", subscriptionHandler.SuspendSubscription)
			subs.POST("/:id/renew", subscriptionHandler.RenewSubscription)
			subs.POST("/reactivate", subscriptionHandler.ReactivateSubscription)
		}

		payments := authed.Group("/payments")
		{
			payments.POST("/sources", paymentHandler.CreateSource)
			payments.POST("/cash", paymentHandler.ConfirmCash)
			payments.GET("/sources/unresolved", paymentHandler.ListUnresolved)
		}
	}
}
