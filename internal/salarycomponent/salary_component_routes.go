package salarycomponent

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	components := r.Group("/salary-components")
	components.Use(middleware.AuthMiddleware())
	{
		components.GET("", middleware.RBACAuthorize(rbacService, "salary_component", "read"), h.GetAll)
		components.GET("/active", middleware.RBACAuthorize(rbacService, "salary_component", "read"), h.GetActive)
		components.GET("/:id", middleware.RBACAuthorize(rbacService, "salary_component", "read"), h.GetByID)
		components.POST("", middleware.RBACAuthorize(rbacService, "salary_component", "create"), h.Create)
		components.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary_component", "update"), h.Update)
		components.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary_component", "delete"), h.Delete)
	}
}
