package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
)

// RegisterRoutes wires the /api/orders endpoints. The review eligibility
// probe is called service-to-service and stays public; everything else
// requires an access token.
func RegisterRoutes(r *gin.Engine, h *OrderHandler, verifier httpx.Verifier) {
	api := r.Group("/api/orders")
	{
		api.GET("/validate-review", h.ValidateReview)

		protected := api.Group("", httpx.RequireAuth(verifier))
		{
			protected.POST("", h.Create)
			protected.GET("/my-orders", h.MyOrders)
			protected.GET("/:orderId", h.Get)
			protected.PUT("/:orderId/cancel", h.Cancel)
			protected.PUT("/:orderId/status", h.UpdateStatus)
		}
	}
}
