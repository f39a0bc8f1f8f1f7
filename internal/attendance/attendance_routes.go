package attendance

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetAll)
		attendances.GET("/summary", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.Summary)
		attendances.PUT("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "attendance", "update"),
			h.Record,
		)
	}
}
