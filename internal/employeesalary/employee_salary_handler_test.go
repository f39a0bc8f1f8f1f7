package employeesalary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/employeesalary"
	employeesalaryerrors "go-payroll/internal/employeesalary/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeSalaryService struct {
	employeesalary.Service
	createRevisionFn func(ctx context.Context, companyID, actorID string, req employeesalary.CreateSalaryRevisionRequest) (employeesalary.EmployeeSalaryResponse, error)
	activateFn       func(ctx context.Context, companyID, id, actorID string) (employeesalary.EmployeeSalaryResponse, error)
	getActiveFn      func(ctx context.Context, companyID, employeeID string, asOf time.Time) (employeesalary.EmployeeSalaryResponse, error)
}

func (f *fakeSalaryService) CreateRevision(ctx context.Context, companyID, actorID string, req employeesalary.CreateSalaryRevisionRequest) (employeesalary.EmployeeSalaryResponse, error) {
	return f.createRevisionFn(ctx, companyID, actorID, req)
}

func (f *fakeSalaryService) Activate(ctx context.Context, companyID, id, actorID string) (employeesalary.EmployeeSalaryResponse, error) {
	return f.activateFn(ctx, companyID, id, actorID)
}

func (f *fakeSalaryService) GetActive(ctx context.Context, companyID, employeeID string, asOf time.Time) (employeesalary.EmployeeSalaryResponse, error) {
	return f.getActiveFn(ctx, companyID, employeeID, asOf)
}

func TestEmployeeSalaryHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created with actor from context", func(t *testing.T) {
		svc := &fakeSalaryService{
			createRevisionFn: func(ctx context.Context, companyID, actorID string, req employeesalary.CreateSalaryRevisionRequest) (employeesalary.EmployeeSalaryResponse, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "user-1", actorID)
				assert.Len(t, req.Components, 1)
				return employeesalary.EmployeeSalaryResponse{Status: employeesalary.StatusDraft}, nil
			},
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/employee-salaries", strings.NewReader(`{
			"employee_id":"6f1c1d43-3f0c-4a51-9d1e-0f4f9a1f7e10",
			"effective_from":"2024-01-01",
			"components":[{"component_id":"0b7b8d2e-8a0a-4c1e-9f57-3b1f5f3c2d11"}]
		}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", "company-1")
		c.Set("user_id", "user-1")

		employeesalary.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"DRAFT"`)
	})

	t.Run("bad effective date format", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/employee-salaries", strings.NewReader(
			`{"employee_id":"6f1c1d43-3f0c-4a51-9d1e-0f4f9a1f7e10","effective_from":"01/01/2024"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		employeesalary.NewHandler(&fakeSalaryService{}).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeSalaryHandler_Activate_InvalidTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeSalaryService{
		activateFn: func(ctx context.Context, companyID, id, actorID string) (employeesalary.EmployeeSalaryResponse, error) {
			return employeesalary.EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidStatusTransition
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/employee-salaries/x/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	employeesalary.NewHandler(svc).Activate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestEmployeeSalaryHandler_GetActive_AsOf(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeSalaryService{
		getActiveFn: func(ctx context.Context, companyID, employeeID string, asOf time.Time) (employeesalary.EmployeeSalaryResponse, error) {
			assert.Equal(t, "emp-1", employeeID)
			assert.Equal(t, "2024-03-15", asOf.Format("2006-01-02"))
			return employeesalary.EmployeeSalaryResponse{Status: employeesalary.StatusActive}, nil
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/employees/emp-1/salaries/active?as_of=2024-03-15", nil)
	c.Params = gin.Params{{Key: "employee_id", Value: "emp-1"}}

	employeesalary.NewHandler(svc).GetActive(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
