package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
)

// RegisterRoutes wires the /api/catalogue endpoints. Recording an order is
// called service-to-service by the order service and stays public; the
// user-facing reads require an access token.
func RegisterRoutes(r *gin.Engine, h *CatalogueHandler, verifier httpx.Verifier) {
	api := r.Group("/api/catalogue")
	{
		api.POST("/orders", h.RecordOrder)

		protected := api.Group("", httpx.RequireAuth(verifier))
		{
			protected.GET("/my-history", h.MyHistory)
			protected.GET("/my-summary", h.MySummary)
			protected.PUT("/profile", h.UpdateSnapshot)
			protected.GET("/orders/:orderNumber", h.OrderByNumber)
		}
	}
}
