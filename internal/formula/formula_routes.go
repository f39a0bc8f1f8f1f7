package formula

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	formulas := r.Group("/formulas")
	formulas.Use(middleware.AuthMiddleware())
	{
		formulas.GET("", middleware.RBACAuthorize(rbacService, "formula", "read"), h.GetAll)
		formulas.GET("/:id", middleware.RBACAuthorize(rbacService, "formula", "read"), h.GetByID)
		formulas.POST("", middleware.RBACAuthorize(rbacService, "formula", "create"), h.Create)
		formulas.POST("/evaluate",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "formula", "read"),
			h.Evaluate,
		)
		formulas.PUT("/:id", middleware.RBACAuthorize(rbacService, "formula", "update"), h.Update)
		formulas.DELETE("/:id", middleware.RBACAuthorize(rbacService, "formula", "delete"), h.Delete)
	}
}
