package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
	"github.com/plantops/skilltrack/pkg/storage"
)

// UploadResult is the outcome of an evidence upload against an existing
// employee-skill record.
type UploadResult struct {
	Record      *models.EmployeeSkill   `json:"record"`
	Documents   []*models.SkillDocument `json:"documents"`
	FailedFiles []FailedFile            `json:"failed_files,omitempty"`
}

// DocumentService coordinates the evidence store: uploads, grouped reads,
// voiding (soft delete) and hard deletes.
type DocumentService interface {
	// UploadForRecord stores evidence against an existing record. When the
	// submitted level differs from the record's current level the change
	// goes through the progression engine and is step-restricted.
	UploadForRecord(ctx context.Context, employeeSkillID int64, level int, actor Actor, files []EvidenceUpload) (*UploadResult, error)

	// ListGrouped returns the record's evidence grouped per certification
	// event: documents sharing (employee_skill_id, skill_id, level) form
	// one group, items newest first. Documents are never merged.
	ListGrouped(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocumentGroup, error)

	// SoftDelete voids a document. Idempotent: voiding an already-voided
	// document succeeds and reports alreadyVoided without a second audit
	// side effect.
	SoftDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor Actor) (alreadyVoided bool, err error)

	// HardDelete removes the backing file best-effort, then the row. Row
	// removal is authoritative; an orphaned file is an accepted residual.
	HardDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor Actor) error
}

type documentService struct {
	documents   repositories.SkillDocumentRepository
	records     repositories.SkillRecordRepository
	users       repositories.UserRepository
	skills      repositories.SkillRepository
	files       storage.FileStore
	progression ProgressionService
	audit       AuditService
	logger      *zap.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documents repositories.SkillDocumentRepository,
	records repositories.SkillRecordRepository,
	users repositories.UserRepository,
	skills repositories.SkillRepository,
	files storage.FileStore,
	progression ProgressionService,
	audit AuditService,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		documents:   documents,
		records:     records,
		users:       users,
		skills:      skills,
		files:       files,
		progression: progression,
		audit:       audit,
		logger:      logger.Named("documents"),
	}
}

var _ DocumentService = (*documentService)(nil)

func (s *documentService) UploadForRecord(ctx context.Context, employeeSkillID int64, level int, actor Actor, files []EvidenceUpload) (*UploadResult, error) {
	if !models.ValidLevel(level) {
		return nil, apperrors.ErrInvalidLevel
	}

	record, err := s.records.GetByID(ctx, employeeSkillID)
	if err != nil {
		return nil, err
	}

	if level != record.Level {
		change, err := s.progression.ApplyLevelChange(ctx, record.EmployeeID, record.SkillID, level, actor, files)
		if err != nil {
			return nil, err
		}
		return &UploadResult{
			Record:      change.Record,
			Documents:   change.Documents,
			FailedFiles: change.FailedFiles,
		}, nil
	}

	docs, failed := s.progression.AttachEvidence(ctx, record, level, actor, files)

	s.audit.Record(ctx, actor, models.AuditActionUploadDocs, models.AuditModuleSkillDocuments,
		fmt.Sprintf("Uploaded %d documents to employee skill %d", len(docs), employeeSkillID))

	return &UploadResult{Record: record, Documents: docs, FailedFiles: failed}, nil
}

func (s *documentService) ListGrouped(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocumentGroup, error) {
	if _, err := s.records.GetByID(ctx, employeeSkillID); err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByRecord(ctx, employeeSkillID, includeDeleted)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []*models.SkillDocumentGroup{}, nil
	}

	userIDs := make([]int64, 0, len(docs))
	skillIDs := make([]int64, 0, len(docs))
	for _, d := range docs {
		userIDs = append(userIDs, d.UploadedBy)
		if d.DeletedBy != nil {
			userIDs = append(userIDs, *d.DeletedBy)
		}
		skillIDs = append(skillIDs, d.SkillID)
	}

	userNames, err := s.users.DisplayNamesByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve user names: %w", err)
	}
	skillNames, err := s.skills.NamesByIDs(ctx, dedupe(skillIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve skill names: %w", err)
	}

	type groupKey struct {
		recordID int64
		skillID  int64
		level    int
	}

	var order []groupKey
	groups := make(map[groupKey]*models.SkillDocumentGroup)

	for _, d := range docs {
		key := groupKey{d.EmployeeSkillID, d.SkillID, d.Level}
		group, ok := groups[key]
		if !ok {
			group = &models.SkillDocumentGroup{
				EmployeeSkillID: d.EmployeeSkillID,
				SkillID:         d.SkillID,
				SkillName:       skillNames[d.SkillID],
				Level:           d.Level,
			}
			groups[key] = group
			order = append(order, key)
		}

		item := models.SkillDocumentItem{
			SkillDocument:  *d,
			UploadedByName: userNames[d.UploadedBy],
		}
		if d.DeletedBy != nil {
			name := userNames[*d.DeletedBy]
			item.DeletedByName = &name
		}
		group.Items = append(group.Items, item)
	}

	result := make([]*models.SkillDocumentGroup, len(order))
	for i, key := range order {
		result[i] = groups[key]
	}
	return result, nil
}

func (s *documentService) SoftDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor Actor) (bool, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return false, err
	}
	if doc.EmployeeID != employeeID {
		return false, apperrors.ErrForbidden
	}
	if doc.IsDeleted {
		return true, nil
	}

	changed, err := s.documents.SoftDelete(ctx, docID, actor.ID, time.Now())
	if err != nil {
		return false, err
	}
	if changed == 0 {
		// Raced with another void; treat as the idempotent success case.
		return true, nil
	}

	s.audit.Record(ctx, actor, models.AuditActionVoidDoc, models.AuditModuleSkillDocuments,
		fmt.Sprintf("Skill document %s voided", docID))
	return false, nil
}

func (s *documentService) HardDelete(ctx context.Context, employeeID int64, docID uuid.UUID, actor Actor) error {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.EmployeeID != employeeID {
		return apperrors.ErrForbidden
	}

	// File removal is best-effort; the row delete below is what counts.
	if err := s.files.Remove(doc.Path); err != nil {
		s.logger.Warn("Failed to remove evidence file",
			zap.String("path", doc.Path), zap.Error(err))
	}

	if err := s.documents.HardDelete(ctx, docID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionHardDelete, models.AuditModuleSkillDocuments,
		fmt.Sprintf("Skill document %s permanently deleted", docID))
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
