package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/models"
)

// SkillRepository provides data access for the skill catalog.
type SkillRepository interface {
	Create(ctx context.Context, name string, operationID int64) (*models.Skill, error)
	GetByID(ctx context.Context, id int64) (*models.SkillDetail, error)
	List(ctx context.Context) ([]*models.SkillDetail, error)
	Update(ctx context.Context, id int64, name string, operationID int64) (*models.Skill, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*models.Skill, error)

	// ListIDsByArea returns IDs of active skills under any operation of the
	// area. This is the target set for bulk level-0 seeding.
	ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error)

	// NamesByIDs resolves skill names for display enrichment.
	NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type skillRepository struct {
	q database.Querier
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(db *database.DB) SkillRepository {
	return &skillRepository{q: db.Pool}
}

var _ SkillRepository = (*skillRepository)(nil)

const skillColumns = `id, name, operation_id, created_at, updated_at, deleted_at`

const skillDetailQuery = `
	SELECT s.id, s.name, s.operation_id, s.created_at, s.updated_at, s.deleted_at,
	       o.name, o.is_critical, a.id, a.name
	FROM skills s
	JOIN operations o ON o.id = s.operation_id
	JOIN areas a ON a.id = o.area_id`

func (r *skillRepository) Create(ctx context.Context, name string, operationID int64) (*models.Skill, error) {
	query := `INSERT INTO skills (name, operation_id) VALUES ($1, $2) RETURNING ` + skillColumns
	return scanSkill(r.q.QueryRow(ctx, query, name, operationID))
}

func (r *skillRepository) GetByID(ctx context.Context, id int64) (*models.SkillDetail, error) {
	query := skillDetailQuery + ` WHERE s.id = $1 AND s.deleted_at IS NULL`
	return scanSkillDetail(r.q.QueryRow(ctx, query, id))
}

func (r *skillRepository) List(ctx context.Context) ([]*models.SkillDetail, error) {
	query := skillDetailQuery + ` WHERE s.deleted_at IS NULL ORDER BY a.name, o.name, s.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var skills []*models.SkillDetail
	for rows.Next() {
		skill, err := scanSkillDetail(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *skillRepository) Update(ctx context.Context, id int64, name string, operationID int64) (*models.Skill, error) {
	query := `
		UPDATE skills SET name = $2, operation_id = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + skillColumns
	return scanSkill(r.q.QueryRow(ctx, query, id, name, operationID))
}

func (r *skillRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE skills SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *skillRepository) Restore(ctx context.Context, id int64) (*models.Skill, error) {
	query := `
		UPDATE skills SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING ` + skillColumns
	return scanSkill(r.q.QueryRow(ctx, query, id))
}

func (r *skillRepository) ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error) {
	query := `
		SELECT s.id
		FROM skills s
		JOIN operations o ON o.id = s.operation_id
		WHERE o.area_id = $1 AND s.deleted_at IS NULL AND o.deleted_at IS NULL`

	rows, err := r.q.Query(ctx, query, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills by area: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *skillRepository) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.q.Query(ctx, `SELECT id, name FROM skills WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func scanSkill(row pgx.Row) (*models.Skill, error) {
	var s models.Skill
	err := row.Scan(&s.ID, &s.Name, &s.OperationID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan skill: %w", err)
	}
	return &s, nil
}

func scanSkillDetail(row pgx.Row) (*models.SkillDetail, error) {
	var s models.SkillDetail
	err := row.Scan(
		&s.ID, &s.Name, &s.OperationID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
		&s.OperationName, &s.IsCritical, &s.AreaID, &s.AreaName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan skill detail: %w", err)
	}
	return &s, nil
}
