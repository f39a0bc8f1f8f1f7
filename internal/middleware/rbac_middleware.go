package middleware

import (
	"context"
	"net/http"

	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service; declared here so the middleware
// does not import the rbac package.
type RBACService interface {
	Enforce(ctx context.Context, employeeID, companyID, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		companyID := c.GetString("company_id")
		if employeeID == "" || companyID == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(c.Request.Context(), employeeID, companyID, resource, action)
		if err != nil {
			zap.L().Named("middleware.rbac").Error("enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			abortWith(c, apperror.New(
				apperror.CodeForbidden,
				"You do not have permission to access this resource",
				http.StatusForbidden,
			).WithDetails(map[string]string{"required": resource + ":" + action}))
			return
		}
		c.Next()
	}
}
