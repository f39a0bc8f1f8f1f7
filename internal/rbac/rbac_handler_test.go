package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	lastCompany string
}

func (f *fakeService) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	return nil
}

func (f *fakeService) Enforce(ctx context.Context, employeeID, companyID, resource, action string) (bool, error) {
	f.lastCompany = companyID
	return resource == "payroll" && action == "read", nil
}

func (f *fakeService) Permissions(ctx context.Context, employeeID, companyID string) ([]PermissionResponse, error) {
	return []PermissionResponse{{Resource: "payroll", Action: "read"}}, nil
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error map[string]any  `json:"error"`
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{}
	handler := NewHandler(svc)

	router := gin.New()
	router.POST("/rbac/enforce", func(c *gin.Context) {
		c.Set("company_id", "company-1")
		handler.Enforce(c)
	})

	body, _ := json.Marshal(EnforceRequest{EmployeeID: " emp-1 ", Resource: "payroll", Action: "read"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp EnforceResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Allowed)
	assert.Equal(t, "company-1", svc.lastCompany)
}

func TestHandler_Enforce_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/rbac/enforce", NewHandler(&fakeService{}).Enforce)

	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"payroll"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
