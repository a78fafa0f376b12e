package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// mockSkillRecordRepo is an in-memory SkillRecordRepository for service tests.
type mockSkillRecordRepo struct {
	records   map[int64]*models.EmployeeSkill
	nextID    int64
	createErr error
	updateErr error
}

func newMockSkillRecordRepo() *mockSkillRecordRepo {
	return &mockSkillRecordRepo{records: make(map[int64]*models.EmployeeSkill)}
}

func (m *mockSkillRecordRepo) seed(employeeID, skillID int64, level int) *models.EmployeeSkill {
	m.nextID++
	rec := &models.EmployeeSkill{
		ID:         m.nextID,
		EmployeeID: employeeID,
		SkillID:    skillID,
		Level:      level,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.records[rec.ID] = rec
	return rec
}

func (m *mockSkillRecordRepo) find(employeeID, skillID int64) *models.EmployeeSkill {
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.SkillID == skillID && rec.DeletedAt == nil {
			return rec
		}
	}
	return nil
}

func (m *mockSkillRecordRepo) Get(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	if rec := m.find(employeeID, skillID); rec != nil {
		return rec, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSkillRecordRepo) GetByID(ctx context.Context, id int64) (*models.EmployeeSkill, error) {
	if rec, ok := m.records[id]; ok && rec.DeletedAt == nil {
		return rec, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSkillRecordRepo) GetForUpdate(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	return m.Get(ctx, employeeID, skillID)
}

func (m *mockSkillRecordRepo) Create(ctx context.Context, employeeID, skillID int64, level int, actorID int64) (*models.EmployeeSkill, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.find(employeeID, skillID) != nil {
		return nil, apperrors.ErrConflict
	}
	rec := m.seed(employeeID, skillID, level)
	rec.UpdatedBy = actorID
	return rec, nil
}

func (m *mockSkillRecordRepo) UpdateLevel(ctx context.Context, id int64, level int, actorID int64) (*models.EmployeeSkill, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	rec, ok := m.records[id]
	if !ok || rec.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	rec.Level = level
	rec.UpdatedBy = actorID
	rec.UpdatedAt = time.Now()
	return rec, nil
}

// CreateBatch mirrors the ON CONFLICT DO NOTHING semantics: existing pairs
// are skipped, including soft-deleted ones.
func (m *mockSkillRecordRepo) CreateBatch(ctx context.Context, pairs []repositories.SeedPair, actorID int64) (int64, error) {
	var created int64
	for _, p := range pairs {
		exists := false
		for _, rec := range m.records {
			if rec.EmployeeID == p.EmployeeID && rec.SkillID == p.SkillID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		rec := m.seed(p.EmployeeID, p.SkillID, 0)
		rec.UpdatedBy = actorID
		created++
	}
	return created, nil
}

func (m *mockSkillRecordRepo) SoftDelete(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	rec := m.find(employeeID, skillID)
	if rec == nil {
		return nil, apperrors.ErrNotFound
	}
	now := time.Now()
	rec.DeletedAt = &now
	return rec, nil
}

func (m *mockSkillRecordRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error) {
	var views []*models.EmployeeSkillView
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.DeletedAt == nil {
			views = append(views, &models.EmployeeSkillView{EmployeeSkill: *rec})
		}
	}
	return views, nil
}

func (m *mockSkillRecordRepo) ListByArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error) {
	return nil, nil
}

func (m *mockSkillRecordRepo) Transact(ctx context.Context, fn func(repositories.SkillRecordRepository) error) error {
	return fn(m)
}

// mockDocumentRepo is an in-memory SkillDocumentRepository.
type mockDocumentRepo struct {
	docs      []*models.SkillDocument
	createErr error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *models.SkillDocument) error {
	if m.createErr != nil {
		return m.createErr
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SkillDocument, error) {
	for _, doc := range m.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockDocumentRepo) ListByRecord(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocument, error) {
	var out []*models.SkillDocument
	for _, doc := range m.docs {
		if doc.EmployeeSkillID != employeeSkillID {
			continue
		}
		if doc.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *mockDocumentRepo) SoftDelete(ctx context.Context, id uuid.UUID, actorID int64, at time.Time) (int64, error) {
	for _, doc := range m.docs {
		if doc.ID == id && !doc.IsDeleted {
			doc.IsDeleted = true
			doc.DeletedBy = &actorID
			doc.DeletedAt = &at
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockDocumentRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	for i, doc := range m.docs {
		if doc.ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// mockFileStore records saves and removals without touching disk.
type mockFileStore struct {
	saved     []string
	removed   []string
	saveErr   error
	removeErr error
	counter   int
}

func (m *mockFileStore) Save(dir, originalFilename string, src io.Reader) (string, string, error) {
	if m.saveErr != nil {
		return "", "", m.saveErr
	}
	io.Copy(io.Discard, src) //nolint:errcheck
	m.counter++
	storedName := fmt.Sprintf("stored-%d", m.counter)
	relPath := dir + "/" + storedName
	m.saved = append(m.saved, relPath)
	return storedName, relPath, nil
}

func (m *mockFileStore) Remove(relPath string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, relPath)
	return nil
}

// mockAuditRepo records appended audit entries.
type mockAuditRepo struct {
	entries   []*models.AuditLogEntry
	createErr error
	queryErr  error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.entries, nil
}

func (m *mockAuditRepo) actions() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// mockNotificationRepo records created notifications.
type mockNotificationRepo struct {
	notifications []*models.Notification
	createErr     error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	return m.notifications, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, userID int64) error {
	return nil
}

// mockUserRepo resolves display names from a fixed map.
type mockUserRepo struct {
	names map[int64]string
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) DisplayNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := m.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// mockSkillRepo serves seeding lookups and name resolution.
type mockSkillRepo struct {
	areaSkillIDs map[int64][]int64
	names        map[int64]string
}

func (m *mockSkillRepo) Create(ctx context.Context, name string, operationID int64) (*models.Skill, error) {
	return &models.Skill{ID: 1, Name: name, OperationID: operationID}, nil
}

func (m *mockSkillRepo) GetByID(ctx context.Context, id int64) (*models.SkillDetail, error) {
	return &models.SkillDetail{Skill: models.Skill{ID: id, Name: m.names[id]}}, nil
}

func (m *mockSkillRepo) List(ctx context.Context) ([]*models.SkillDetail, error) {
	return nil, nil
}

func (m *mockSkillRepo) Update(ctx context.Context, id int64, name string, operationID int64) (*models.Skill, error) {
	return &models.Skill{ID: id, Name: name, OperationID: operationID}, nil
}

func (m *mockSkillRepo) SoftDelete(ctx context.Context, id int64) error { return nil }

func (m *mockSkillRepo) Restore(ctx context.Context, id int64) (*models.Skill, error) {
	return &models.Skill{ID: id}, nil
}

func (m *mockSkillRepo) ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error) {
	return m.areaSkillIDs[areaID], nil
}

func (m *mockSkillRepo) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := m.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// mockEmployeeRepo serves seeding lookups and the employee service.
type mockEmployeeRepo struct {
	employees       map[int64]*models.EmployeeDetail
	areaEmployeeIDs map[int64][]int64
	nextID          int64
	createErr       error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees:       make(map[int64]*models.EmployeeDetail),
		areaEmployeeIDs: make(map[int64][]int64),
	}
}

func (m *mockEmployeeRepo) Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	e := &models.Employee{
		ID:           m.nextID,
		EmployeeCode: in.EmployeeCode,
		FullName:     in.FullName,
		HireDate:     in.HireDate,
		ShiftID:      in.ShiftID,
		PositionID:   in.PositionID,
		AreaID:       in.AreaID,
		ClassID:      in.ClassID,
	}
	m.employees[e.ID] = &models.EmployeeDetail{Employee: *e}
	return e, nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*models.EmployeeDetail, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockEmployeeRepo) GetByCode(ctx context.Context, code string) (*models.EmployeeDetail, error) {
	for _, e := range m.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockEmployeeRepo) List(ctx context.Context) ([]*models.EmployeeDetail, error) {
	var out []*models.EmployeeDetail
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, id int64, in *models.EmployeeInput) (*models.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e.EmployeeCode = in.EmployeeCode
	e.FullName = in.FullName
	e.AreaID = in.AreaID
	e.ShiftID = in.ShiftID
	e.PositionID = in.PositionID
	e.ClassID = in.ClassID
	return &e.Employee, nil
}

func (m *mockEmployeeRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return apperrors.ErrNotFound
	}
	now := time.Now()
	m.employees[id].DeletedAt = &now
	return nil
}

func (m *mockEmployeeRepo) Restore(ctx context.Context, id int64) (*models.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e.DeletedAt = nil
	return &e.Employee, nil
}

func (m *mockEmployeeRepo) ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error) {
	return m.areaEmployeeIDs[areaID], nil
}
