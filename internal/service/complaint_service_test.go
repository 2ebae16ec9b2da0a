package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type complaintRepoStub struct {
	complaint *models.Complaint
	updates   int
}

func (s *complaintRepoStub) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	if s.complaint == nil {
		return nil, 0, nil
	}
	return []models.Complaint{*s.complaint}, 1, nil
}

func (s *complaintRepoStub) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	if s.complaint == nil || s.complaint.ID != id {
		return nil, sql.ErrNoRows
	}
	c := *s.complaint
	return &c, nil
}

func (s *complaintRepoStub) Create(ctx context.Context, complaint *models.Complaint) error {
	complaint.ID = "complaint-1"
	complaint.CreatedAt = time.Now().UTC()
	s.complaint = complaint
	return nil
}

func (s *complaintRepoStub) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, note *string, resolvedAt *time.Time) error {
	s.updates++
	s.complaint.Status = status
	s.complaint.Note = note
	s.complaint.ResolvedAt = resolvedAt
	return nil
}

func (s *complaintRepoStub) CountByStatus(ctx context.Context) (map[models.ComplaintStatus]int, error) {
	return map[models.ComplaintStatus]int{models.ComplaintStatusNew: 1}, nil
}

func validComplaintRequest() dto.CreateComplaintRequest {
	return dto.CreateComplaintRequest{
		FullName: "Budi Santoso",
		Email:    "budi@example.com",
		Phone:    "081234567890",
		Category: "billing",
		Message:  "My installment was charged twice this month.",
	}
}

func TestComplaintSubmitStartsAtNew(t *testing.T) {
	repo := &complaintRepoStub{}
	svc := NewComplaintService(repo, nil, nil, nil)

	complaint, err := svc.Submit(context.Background(), validComplaintRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusNew, complaint.Status)
	assert.Nil(t, complaint.ResolvedAt)
}

func TestComplaintSubmitValidation(t *testing.T) {
	svc := NewComplaintService(&complaintRepoStub{}, nil, nil, nil)

	req := validComplaintRequest()
	req.Message = "too short"
	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestComplaintWorkflowTransitions(t *testing.T) {
	cases := []struct {
		from    models.ComplaintStatus
		to      models.ComplaintStatus
		allowed bool
	}{
		{models.ComplaintStatusNew, models.ComplaintStatusInReview, true},
		{models.ComplaintStatusNew, models.ComplaintStatusRejected, true},
		{models.ComplaintStatusNew, models.ComplaintStatusResolved, false},
		{models.ComplaintStatusInReview, models.ComplaintStatusResolved, true},
		{models.ComplaintStatusInReview, models.ComplaintStatusRejected, true},
		{models.ComplaintStatusInReview, models.ComplaintStatusNew, false},
		{models.ComplaintStatusResolved, models.ComplaintStatusInReview, false},
		{models.ComplaintStatusRejected, models.ComplaintStatusInReview, false},
		{models.ComplaintStatusResolved, models.ComplaintStatusRejected, false},
	}

	for _, tc := range cases {
		repo := &complaintRepoStub{complaint: &models.Complaint{ID: "complaint-1", Status: tc.from}}
		svc := NewComplaintService(repo, nil, nil, nil)

		_, err := svc.UpdateStatus(context.Background(), "complaint-1", dto.UpdateComplaintStatusRequest{
			Status: string(tc.to),
		}, nil)

		if tc.allowed {
			assert.NoError(t, err, "%s -> %s should be allowed", tc.from, tc.to)
		} else {
			require.Error(t, err, "%s -> %s should be rejected", tc.from, tc.to)
			assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
			assert.Zero(t, repo.updates)
		}
	}
}

func TestComplaintResolutionStampsTimestamp(t *testing.T) {
	repo := &complaintRepoStub{complaint: &models.Complaint{ID: "complaint-1", Status: models.ComplaintStatusInReview}}
	audit := &auditLoggerStub{}
	svc := NewComplaintService(repo, audit, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), "complaint-1", dto.UpdateComplaintStatusRequest{
		Status: "RESOLVED",
		Note:   "Duplicate charge refunded",
	}, &models.JWTClaims{UserID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, models.ComplaintStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "Duplicate charge refunded", *updated.Note)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionStatusChange, audit.logs[0].Action)
}

func TestComplaintUpdateStatusNotFound(t *testing.T) {
	svc := NewComplaintService(&complaintRepoStub{}, nil, nil, nil)
	_, err := svc.UpdateStatus(context.Background(), "missing", dto.UpdateComplaintStatusRequest{Status: "IN_REVIEW"}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
