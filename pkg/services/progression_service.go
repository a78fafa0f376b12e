package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
	"github.com/plantops/skilltrack/pkg/storage"
)

// LevelChangeResult is the outcome of ApplyLevelChange. The level mutation
// and evidence storage are independent stores with no shared transaction:
// when FailedFiles is non-empty the level change still stands and only the
// listed files need to be resubmitted.
type LevelChangeResult struct {
	Record      *models.EmployeeSkill   `json:"record"`
	Created     bool                    `json:"created"`
	Documents   []*models.SkillDocument `json:"documents"`
	FailedFiles []FailedFile            `json:"failed_files,omitempty"`
}

// ProgressionService is the skill progression engine. It owns the one-step
// transition rule and coordinates the record store, the evidence store and
// the audit trail.
type ProgressionService interface {
	// ApplyLevelChange assigns or updates the level for an (employee, skill)
	// pair. A first assignment is created at the requested level without a
	// step restriction (backfilling already-certified hires is intentional);
	// any later change must move the level by exactly one step.
	ApplyLevelChange(ctx context.Context, employeeID, skillID int64, level int, actor Actor, files []EvidenceUpload) (*LevelChangeResult, error)

	// AttachEvidence stores evidence files against an existing record at
	// its current level, without touching the level.
	AttachEvidence(ctx context.Context, record *models.EmployeeSkill, level int, actor Actor, files []EvidenceUpload) ([]*models.SkillDocument, []FailedFile)

	// DeleteAssignment removes the (employee, skill) assignment entirely.
	// This is distinct from a level change and is not step-restricted.
	DeleteAssignment(ctx context.Context, employeeID, skillID int64, actor Actor) error

	// ListForEmployee returns current levels with parent operation context.
	ListForEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error)

	// ListForEmployeeCode resolves an employee by badge code and returns the
	// same view as ListForEmployee. Backs the unauthenticated kiosk lookup.
	ListForEmployeeCode(ctx context.Context, code string) ([]*models.EmployeeSkillView, error)

	// ListForArea returns the training matrix for an area, optionally
	// filtered by shift and class.
	ListForArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error)
}

type progressionService struct {
	records       repositories.SkillRecordRepository
	documents     repositories.SkillDocumentRepository
	employees     repositories.EmployeeRepository
	files         storage.FileStore
	audit         AuditService
	notifications NotificationService
	logger        *zap.Logger
}

// NewProgressionService creates the progression engine.
func NewProgressionService(
	records repositories.SkillRecordRepository,
	documents repositories.SkillDocumentRepository,
	employees repositories.EmployeeRepository,
	files storage.FileStore,
	audit AuditService,
	notifications NotificationService,
	logger *zap.Logger,
) ProgressionService {
	return &progressionService{
		records:       records,
		documents:     documents,
		employees:     employees,
		files:         files,
		audit:         audit,
		notifications: notifications,
		logger:        logger.Named("progression"),
	}
}

var _ ProgressionService = (*progressionService)(nil)

func (s *progressionService) ApplyLevelChange(ctx context.Context, employeeID, skillID int64, level int, actor Actor, files []EvidenceUpload) (*LevelChangeResult, error) {
	if !models.ValidLevel(level) {
		return nil, apperrors.ErrInvalidLevel
	}

	result := &LevelChangeResult{}

	// The read-modify-write runs under a row lock so concurrent requests
	// for the same pair cannot both validate against a stale level.
	err := s.records.Transact(ctx, func(tx repositories.SkillRecordRepository) error {
		existing, err := tx.GetForUpdate(ctx, employeeID, skillID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			record, err := tx.Create(ctx, employeeID, skillID, level, actor.ID)
			if err != nil {
				return err
			}
			result.Record = record
			result.Created = true
			return nil
		case err != nil:
			return err
		}

		delta := level - existing.Level
		if delta != 1 && delta != -1 {
			return &apperrors.NonSequentialTransitionError{
				Current:   existing.Level,
				Requested: level,
			}
		}

		record, err := tx.UpdateLevel(ctx, existing.ID, level, actor.ID)
		if err != nil {
			return err
		}
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The level change is committed from here on; evidence and audit
	// failures no longer undo it.
	result.Documents, result.FailedFiles = s.AttachEvidence(ctx, result.Record, level, actor, files)

	s.audit.Record(ctx, actor, models.AuditActionUpdateLevel, models.AuditModuleEmployeeSkills,
		fmt.Sprintf("Skill %d level for employee %d set to %d", skillID, employeeID, level))

	s.notifications.Notify(ctx, actor.ID, "Skill level updated",
		fmt.Sprintf("You set a skill level for employee %d to %d", employeeID, level))

	return result, nil
}

func (s *progressionService) AttachEvidence(ctx context.Context, record *models.EmployeeSkill, level int, actor Actor, files []EvidenceUpload) ([]*models.SkillDocument, []FailedFile) {
	var docs []*models.SkillDocument
	var failed []FailedFile

	dir := fmt.Sprintf("skills/%d", record.EmployeeID)

	for _, file := range files {
		doc, err := s.storeOne(ctx, record, level, actor, dir, file)
		if err != nil {
			s.logger.Error("Failed to store evidence file",
				zap.Int64("employee_skill_id", record.ID),
				zap.String("original_filename", file.OriginalFilename),
				zap.Error(err))
			failed = append(failed, FailedFile{
				OriginalFilename: file.OriginalFilename,
				Reason:           err.Error(),
			})
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failed
}

func (s *progressionService) storeOne(ctx context.Context, record *models.EmployeeSkill, level int, actor Actor, dir string, file EvidenceUpload) (*models.SkillDocument, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	storedName, relPath, err := s.files.Save(dir, file.OriginalFilename, src)
	if err != nil {
		return nil, err
	}

	doc := &models.SkillDocument{
		EmployeeSkillID:  record.ID,
		EmployeeID:       record.EmployeeID,
		SkillID:          record.SkillID,
		Level:            level,
		Filename:         storedName,
		OriginalFilename: file.OriginalFilename,
		Path:             relPath,
		UploadedBy:       actor.ID,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		// Row creation failed after the file landed on disk; remove the
		// orphan so retries don't accumulate files.
		if rmErr := s.files.Remove(relPath); rmErr != nil {
			s.logger.Warn("Failed to remove orphaned evidence file",
				zap.String("path", relPath), zap.Error(rmErr))
		}
		return nil, err
	}
	return doc, nil
}

func (s *progressionService) DeleteAssignment(ctx context.Context, employeeID, skillID int64, actor Actor) error {
	record, err := s.records.SoftDelete(ctx, employeeID, skillID)
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, models.AuditModuleEmployeeSkills,
		fmt.Sprintf("Removed skill %d assignment from employee %d", record.SkillID, record.EmployeeID))
	return nil
}

func (s *progressionService) ListForEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error) {
	return s.records.ListByEmployee(ctx, employeeID)
}

func (s *progressionService) ListForEmployeeCode(ctx context.Context, code string) ([]*models.EmployeeSkillView, error) {
	employee, err := s.employees.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.records.ListByEmployee(ctx, employee.ID)
}

func (s *progressionService) ListForArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error) {
	return s.records.ListByArea(ctx, areaID, shiftID, classID)
}
