package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	generations := r.Group("/salary-generations")
	generations.Use(
		middleware.AuthMiddleware(),
		middleware.ExtractUserID(),
		middleware.ContextLogger(zap.L().Named("http.payroll")),
	)
	{
		generations.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetAll,
		)
		generations.GET("/export",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "payroll", "export"),
			handler.ExportRegister,
		)
		generations.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetByID,
		)
		generations.GET("/:id/breakdown",
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetBreakdown,
		)
		generations.GET("/:id/payslip/download",
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.DownloadPayslip,
		)
		generations.POST("/generate",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "payroll", "create"),
			handler.Generate,
		)
		generations.POST("/generate-batch",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "payroll", "create"),
			handler.GenerateBatch,
		)
		generations.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "approve"),
			handler.Approve,
		)
		generations.POST("/:id/mark-paid",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "pay"),
			handler.MarkAsPaid,
		)
		generations.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "cancel"),
			handler.Cancel,
		)
		generations.POST("/:id/payslip",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.RequestPayslip,
		)
	}

	policy := r.Group("/payroll-policy")
	policy.Use(
		middleware.AuthMiddleware(),
		middleware.ExtractUserID(),
		middleware.ContextLogger(zap.L().Named("http.payroll_policy")),
	)
	{
		policy.GET("", middleware.RBACAuthorize(rbacService, "payroll_policy", "read"), handler.GetPolicy)
		policy.PUT("", middleware.RBACAuthorize(rbacService, "payroll_policy", "update"), handler.UpsertPolicy)
	}
}
