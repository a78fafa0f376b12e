package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/models"
)

func newProgressionFixture() (*mockSkillRecordRepo, *mockDocumentRepo, *mockFileStore, *mockAuditRepo, ProgressionService) {
	records := newMockSkillRecordRepo()
	docs := &mockDocumentRepo{}
	files := &mockFileStore{}
	audit := &mockAuditRepo{}
	logger := zap.NewNop()

	svc := NewProgressionService(
		records, docs, newMockEmployeeRepo(), files,
		NewAuditService(audit, logger),
		NewNotificationService(&mockNotificationRepo{}, logger),
		logger,
	)
	return records, docs, files, audit, svc
}

func testActor() Actor {
	return Actor{ID: 7, Name: "Test Operator", IP: "10.0.0.1"}
}

func upload(name string) EvidenceUpload {
	return EvidenceUpload{
		OriginalFilename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("evidence")), nil
		},
	}
}

func TestApplyLevelChange_FirstAssignmentAtAnyLevel(t *testing.T) {
	_, _, _, audit, svc := newProgressionFixture()

	// No prior record: an experienced hire can start at level 3 directly.
	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 3, testActor(), nil)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, 3, result.Record.Level)
	assert.Equal(t, int64(7), result.Record.UpdatedBy)
	assert.Contains(t, audit.actions(), models.AuditActionUpdateLevel)
}

func TestApplyLevelChange_OneStepUp(t *testing.T) {
	records, _, _, _, svc := newProgressionFixture()
	records.seed(1, 10, 1)

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(), nil)
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, 2, result.Record.Level)
}

func TestApplyLevelChange_OneStepDown(t *testing.T) {
	records, _, _, _, svc := newProgressionFixture()
	records.seed(1, 10, 2)

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 1, testActor(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Record.Level)
}

func TestApplyLevelChange_NonSequentialRejected(t *testing.T) {
	records, _, _, audit, svc := newProgressionFixture()
	rec := records.seed(1, 10, 1)

	_, err := svc.ApplyLevelChange(context.Background(), 1, 10, 3, testActor(), nil)
	require.Error(t, err)

	nse, ok := apperrors.IsNonSequential(err)
	require.True(t, ok)
	assert.Equal(t, 1, nse.Current)
	assert.Equal(t, 3, nse.Requested)

	// The record is untouched and nothing was audited.
	assert.Equal(t, 1, rec.Level)
	assert.Empty(t, audit.entries)
}

func TestApplyLevelChange_SameLevelRejected(t *testing.T) {
	records, _, _, _, svc := newProgressionFixture()
	records.seed(1, 10, 2)

	_, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(), nil)
	_, ok := apperrors.IsNonSequential(err)
	assert.True(t, ok)
}

func TestApplyLevelChange_InvalidLevel(t *testing.T) {
	_, _, _, _, svc := newProgressionFixture()

	for _, level := range []int{-1, 5, 100} {
		_, err := svc.ApplyLevelChange(context.Background(), 1, 10, level, testActor(), nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidLevel, "level %d", level)
	}
}

func TestApplyLevelChange_EvidenceTaggedWithNewLevel(t *testing.T) {
	records, docs, _, _, svc := newProgressionFixture()
	records.seed(1, 10, 1)

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(),
		[]EvidenceUpload{upload("cert.pdf"), upload("photo.jpg")})
	require.NoError(t, err)

	require.Len(t, result.Documents, 2)
	for _, doc := range result.Documents {
		assert.Equal(t, 2, doc.Level)
		assert.Equal(t, int64(1), doc.EmployeeID)
		assert.Equal(t, int64(10), doc.SkillID)
	}
	assert.Len(t, docs.docs, 2)
	assert.Empty(t, result.FailedFiles)
}

func TestApplyLevelChange_StorageFailureDoesNotRevertLevel(t *testing.T) {
	records, _, files, _, svc := newProgressionFixture()
	rec := records.seed(1, 10, 1)
	files.saveErr = errors.New("disk full")

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(),
		[]EvidenceUpload{upload("cert.pdf")})
	require.NoError(t, err)

	// Level change stands; the failed file is reported for resubmission.
	assert.Equal(t, 2, rec.Level)
	require.Len(t, result.FailedFiles, 1)
	assert.Equal(t, "cert.pdf", result.FailedFiles[0].OriginalFilename)
	assert.Empty(t, result.Documents)
}

func TestApplyLevelChange_RowFailureRemovesOrphanFile(t *testing.T) {
	records, docs, files, _, svc := newProgressionFixture()
	records.seed(1, 10, 1)
	docs.createErr = errors.New("insert failed")

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(),
		[]EvidenceUpload{upload("cert.pdf")})
	require.NoError(t, err)

	require.Len(t, result.FailedFiles, 1)
	// The stored file was cleaned up after the row insert failed.
	assert.Equal(t, files.saved, files.removed)
}

func TestApplyLevelChange_PartialEvidenceFailure(t *testing.T) {
	records, _, _, _, svc := newProgressionFixture()
	records.seed(1, 10, 1)

	bad := EvidenceUpload{
		OriginalFilename: "broken.pdf",
		Open:             func() (io.ReadCloser, error) { return nil, errors.New("stream reset") },
	}

	result, err := svc.ApplyLevelChange(context.Background(), 1, 10, 2, testActor(),
		[]EvidenceUpload{upload("good.pdf"), bad})
	require.NoError(t, err)

	require.Len(t, result.Documents, 1)
	assert.Equal(t, "good.pdf", result.Documents[0].OriginalFilename)
	require.Len(t, result.FailedFiles, 1)
	assert.Equal(t, "broken.pdf", result.FailedFiles[0].OriginalFilename)
}

func TestDeleteAssignment(t *testing.T) {
	records, _, _, audit, svc := newProgressionFixture()
	records.seed(1, 10, 2)

	err := svc.DeleteAssignment(context.Background(), 1, 10, testActor())
	require.NoError(t, err)

	assert.Nil(t, records.find(1, 10))
	assert.Contains(t, audit.actions(), models.AuditActionDelete)
}

func TestDeleteAssignment_NotFound(t *testing.T) {
	_, _, _, _, svc := newProgressionFixture()

	err := svc.DeleteAssignment(context.Background(), 1, 10, testActor())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListForEmployeeCode(t *testing.T) {
	records := newMockSkillRecordRepo()
	records.seed(4, 10, 2)
	employees := newMockEmployeeRepo()
	employees.employees[4] = &models.EmployeeDetail{
		Employee: models.Employee{ID: 4, EmployeeCode: "EMP-0042"},
	}
	logger := zap.NewNop()
	svc := NewProgressionService(records, &mockDocumentRepo{}, employees, &mockFileStore{},
		NewAuditService(&mockAuditRepo{}, logger),
		NewNotificationService(&mockNotificationRepo{}, logger),
		logger,
	)

	views, err := svc.ListForEmployeeCode(context.Background(), "EMP-0042")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Level)

	_, err = svc.ListForEmployeeCode(context.Background(), "EMP-9999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
