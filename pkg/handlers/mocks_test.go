package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/services"
)

// mockProgressionService is a configurable ProgressionService for handler tests.
type mockProgressionService struct {
	result       *services.LevelChangeResult
	views        []*models.EmployeeSkillView
	rows         []*models.AreaSkillRow
	err          error
	lastLevel    int
	lastEmployee int64
	lastSkill    int64
	lastShiftID  *int64
	lastClassID  *int64
	lastCode     string
	deleted      bool
}

func (m *mockProgressionService) ApplyLevelChange(ctx context.Context, employeeID, skillID int64, level int, actor services.Actor, files []services.EvidenceUpload) (*services.LevelChangeResult, error) {
	m.lastEmployee = employeeID
	m.lastSkill = skillID
	m.lastLevel = level
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &services.LevelChangeResult{
		Record: &models.EmployeeSkill{ID: 1, EmployeeID: employeeID, SkillID: skillID, Level: level},
	}, nil
}

func (m *mockProgressionService) AttachEvidence(ctx context.Context, record *models.EmployeeSkill, level int, actor services.Actor, files []services.EvidenceUpload) ([]*models.SkillDocument, []services.FailedFile) {
	return nil, nil
}

func (m *mockProgressionService) DeleteAssignment(ctx context.Context, employeeID, skillID int64, actor services.Actor) error {
	m.deleted = true
	return m.err
}

func (m *mockProgressionService) ListForEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.views, nil
}

func (m *mockProgressionService) ListForEmployeeCode(ctx context.Context, code string) ([]*models.EmployeeSkillView, error) {
	m.lastCode = code
	if m.err != nil {
		return nil, m.err
	}
	return m.views, nil
}

func (m *mockProgressionService) ListForArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error) {
	m.lastShiftID = shiftID
	m.lastClassID = classID
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

// mockDocumentService is a configurable DocumentService for handler tests.
type mockDocumentService struct {
	uploadResult  *services.UploadResult
	groups        []*models.SkillDocumentGroup
	err           error
	alreadyVoided bool
	lastInclude   bool
	lastLevel     int
}

func (m *mockDocumentService) UploadForRecord(ctx context.Context, employeeSkillID int64, level int, actor services.Actor, files []services.EvidenceUpload) (*services.UploadResult, error) {
	m.lastLevel = level
	if m.err != nil {
		return nil, m.err
	}
	if m.uploadResult != nil {
		return m.uploadResult, nil
	}
	return &services.UploadResult{
		Record: &models.EmployeeSkill{ID: employeeSkillID, Level: level},
	}, nil
}

func (m *mockDocumentService) ListGrouped(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocumentGroup, error) {
	m.lastInclude = includeDeleted
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

func (m *mockDocumentService) SoftDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor services.Actor) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.alreadyVoided, nil
}

func (m *mockDocumentService) HardDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor services.Actor) error {
	return m.err
}

// mockAuditService is a configurable AuditService for handler tests.
type mockAuditService struct {
	entries    []*models.AuditLogEntry
	err        error
	lastFilter models.AuditLogFilter
}

func (m *mockAuditService) Record(ctx context.Context, actor services.Actor, action, module, description string) {
	m.entries = append(m.entries, &models.AuditLogEntry{
		ActorID: actor.ID, ActorName: actor.Name, Action: action, Module: module, Description: description,
	})
}

func (m *mockAuditService) Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockAuditService) Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}
