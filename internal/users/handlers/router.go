package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
)

// RegisterRoutes wires the /api/auth endpoints. Login, register and refresh
// are public; everything else sits behind the access-token guard.
func RegisterRoutes(r *gin.Engine, h *AuthHandler, verifier httpx.Verifier) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/refresh", h.Refresh)
		api.GET("/validate", h.Validate)

		protected := api.Group("", httpx.RequireAuth(verifier))
		{
			protected.POST("/logout", h.Logout)
			protected.GET("/me", h.Me)
			protected.PUT("/profile", h.UpdateProfile)
			protected.POST("/change-password", h.ChangePassword)
		}
	}
}
