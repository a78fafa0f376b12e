package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/models"
)

// SkillDocumentRepository provides data access for evidence documents.
type SkillDocumentRepository interface {
	// Create inserts a new evidence document row.
	Create(ctx context.Context, doc *models.SkillDocument) error

	// GetByID returns a document regardless of void status.
	GetByID(ctx context.Context, id uuid.UUID) (*models.SkillDocument, error)

	// ListByRecord returns documents for an employee-skill record, newest
	// upload first. Voided documents are excluded unless includeDeleted.
	ListByRecord(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocument, error)

	// SoftDelete marks a document voided. Returns the number of rows
	// changed; voiding an already-voided document changes nothing.
	SoftDelete(ctx context.Context, id uuid.UUID, actorID int64, at time.Time) (int64, error)

	// HardDelete physically removes the document row.
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type skillDocumentRepository struct {
	q database.Querier
}

// NewSkillDocumentRepository creates a new SkillDocumentRepository.
func NewSkillDocumentRepository(db *database.DB) SkillDocumentRepository {
	return &skillDocumentRepository{q: db.Pool}
}

var _ SkillDocumentRepository = (*skillDocumentRepository)(nil)

const skillDocumentColumns = `id, employee_skill_id, employee_id, skill_id, level,
	filename, original_filename, path, uploaded_by, uploaded_at,
	is_deleted, deleted_by, deleted_at`

func (r *skillDocumentRepository) Create(ctx context.Context, doc *models.SkillDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}

	query := `
		INSERT INTO skill_documents (
			id, employee_skill_id, employee_id, skill_id, level,
			filename, original_filename, path, uploaded_by, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.EmployeeSkillID, doc.EmployeeID, doc.SkillID, doc.Level,
		doc.Filename, doc.OriginalFilename, doc.Path, doc.UploadedBy, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create skill document: %w", err)
	}
	return nil
}

func (r *skillDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SkillDocument, error) {
	query := `SELECT ` + skillDocumentColumns + ` FROM skill_documents WHERE id = $1`
	return scanSkillDocument(r.q.QueryRow(ctx, query, id))
}

func (r *skillDocumentRepository) ListByRecord(ctx context.Context, employeeSkillID int64, includeDeleted bool) ([]*models.SkillDocument, error) {
	query := `SELECT ` + skillDocumentColumns + ` FROM skill_documents WHERE employee_skill_id = $1`
	if !includeDeleted {
		query += ` AND NOT is_deleted`
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.q.Query(ctx, query, employeeSkillID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.SkillDocument
	for rows.Next() {
		doc, err := scanSkillDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *skillDocumentRepository) SoftDelete(ctx context.Context, id uuid.UUID, actorID int64, at time.Time) (int64, error) {
	query := `
		UPDATE skill_documents
		SET is_deleted = TRUE, deleted_by = $2, deleted_at = $3
		WHERE id = $1 AND NOT is_deleted`

	tag, err := r.q.Exec(ctx, query, id, actorID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to void skill document: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *skillDocumentRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM skill_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanSkillDocument(row pgx.Row) (*models.SkillDocument, error) {
	var d models.SkillDocument
	err := row.Scan(
		&d.ID, &d.EmployeeSkillID, &d.EmployeeID, &d.SkillID, &d.Level,
		&d.Filename, &d.OriginalFilename, &d.Path, &d.UploadedBy, &d.UploadedAt,
		&d.IsDeleted, &d.DeletedBy, &d.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan skill document: %w", err)
	}
	return &d, nil
}
