package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
)

// RegisterRoutes wires the /api/reviews endpoints. Product reviews are
// readable without a token; writing requires one.
func RegisterRoutes(r *gin.Engine, h *ReviewHandler, verifier httpx.Verifier) {
	api := r.Group("/api/reviews")
	{
		api.GET("/product/:productId", h.ByProduct)

		protected := api.Group("", httpx.RequireAuth(verifier))
		{
			protected.POST("", h.Add)
			protected.GET("/my-reviews", h.MyReviews)
			protected.DELETE("/:reviewId", h.Delete)
		}
	}
}
