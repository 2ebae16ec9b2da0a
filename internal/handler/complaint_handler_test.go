package handler

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

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/middleware"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type complaintServiceMock struct {
	submitted *dto.CreateComplaintRequest
	updateErr error
}

func (m *complaintServiceMock) Submit(ctx context.Context, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	m.submitted = &req
	return &models.Complaint{ID: "complaint-1", Status: models.ComplaintStatusNew}, nil
}

func (m *complaintServiceMock) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error) {
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *complaintServiceMock) Get(ctx context.Context, id string) (*models.Complaint, error) {
	return &models.Complaint{ID: id}, nil
}

func (m *complaintServiceMock) UpdateStatus(ctx context.Context, id string, req dto.UpdateComplaintStatusRequest, actor *models.JWTClaims) (*models.Complaint, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Complaint{ID: id, Status: models.ComplaintStatus(req.Status)}, nil
}

func (m *complaintServiceMock) Summary(ctx context.Context) (map[models.ComplaintStatus]int, error) {
	return map[models.ComplaintStatus]int{models.ComplaintStatusNew: 2}, nil
}

func TestComplaintHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &complaintServiceMock{}
	handler := NewComplaintHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateComplaintRequest{
		FullName: "Budi Santoso",
		Email:    "budi@example.com",
		Phone:    "081234567890",
		Category: "billing",
		Message:  "My installment was charged twice this month.",
	})
	req, _ := http.NewRequest(http.MethodPost, "/complaints", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, "budi@example.com", svc.submitted.Email)
}

func TestComplaintHandlerSubmitInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewComplaintHandler(&complaintServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/complaints", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintHandlerUpdateStatusConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewComplaintHandler(&complaintServiceMock{updateErr: appErrors.Clone(appErrors.ErrConflict, "complaint already resolved")})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpdateComplaintStatusRequest{Status: "IN_REVIEW"})
	req, _ := http.NewRequest(http.MethodPut, "/admin/complaints/complaint-1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "complaint-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
