package employeesalary

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	salaries := r.Group("/employee-salaries")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.GetAll,
		)
		salaries.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.GetByID,
		)
		salaries.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "salary", "create"),
			handler.Create,
		)
		salaries.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			handler.UpdateDraft,
		)
		salaries.POST("/:id/activate",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "salary", "approve"),
			handler.Activate,
		)
		salaries.POST("/:id/cancel",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			handler.Cancel,
		)
	}

	byEmployee := r.Group("/employees/:employee_id/salaries")
	byEmployee.Use(middleware.AuthMiddleware())
	{
		byEmployee.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetHistory)
		byEmployee.GET("/active", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetActive)
	}
}
