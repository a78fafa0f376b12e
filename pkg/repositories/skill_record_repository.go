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

// SeedPair identifies one (employee, skill) record to create at level 0.
type SeedPair struct {
	EmployeeID int64
	SkillID    int64
}

// SkillRecordRepository provides data access for employee-skill records.
// GetForUpdate is only meaningful inside Transact: it takes a row lock so
// concurrent level changes on the same pair serialize and revalidate
// against the committed level.
type SkillRecordRepository interface {
	// Get returns the active record for an (employee, skill) pair.
	Get(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error)

	// GetByID returns the active record by primary key.
	GetByID(ctx context.Context, id int64) (*models.EmployeeSkill, error)

	// GetForUpdate locks and returns the active record for the pair.
	GetForUpdate(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error)

	// Create inserts a new record at the given level.
	Create(ctx context.Context, employeeID, skillID int64, level int, actorID int64) (*models.EmployeeSkill, error)

	// UpdateLevel sets a new level on an existing record.
	UpdateLevel(ctx context.Context, id int64, level int, actorID int64) (*models.EmployeeSkill, error)

	// CreateBatch inserts level-0 records for the given pairs, skipping
	// pairs that already have a record (including soft-deleted ones, so a
	// removed assignment is not silently resurrected at level 0).
	CreateBatch(ctx context.Context, pairs []SeedPair, actorID int64) (int64, error)

	// SoftDelete tombstones the record for the pair and returns it.
	SoftDelete(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error)

	// ListByEmployee returns active records with skill and operation context.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error)

	// ListByArea returns the training matrix for an area, optionally
	// filtered by shift and class. Only skills under the area's operations
	// are included.
	ListByArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error)

	// Transact runs fn against a transaction-scoped repository.
	Transact(ctx context.Context, fn func(SkillRecordRepository) error) error
}

type skillRecordRepository struct {
	q  database.Querier
	db *database.DB // nil when transaction-scoped
}

// NewSkillRecordRepository creates a pool-backed SkillRecordRepository.
func NewSkillRecordRepository(db *database.DB) SkillRecordRepository {
	return &skillRecordRepository{q: db.Pool, db: db}
}

var _ SkillRecordRepository = (*skillRecordRepository)(nil)

func (r *skillRecordRepository) Transact(ctx context.Context, fn func(SkillRecordRepository) error) error {
	if r.db == nil {
		return fmt.Errorf("nested transactions are not supported")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&skillRecordRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const skillRecordColumns = `id, employee_id, skill_id, level, updated_by, created_at, updated_at, deleted_at`

func (r *skillRecordRepository) Get(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	query := `
		SELECT ` + skillRecordColumns + `
		FROM employee_skills
		WHERE employee_id = $1 AND skill_id = $2 AND deleted_at IS NULL`

	return scanSkillRecord(r.q.QueryRow(ctx, query, employeeID, skillID))
}

func (r *skillRecordRepository) GetByID(ctx context.Context, id int64) (*models.EmployeeSkill, error) {
	query := `
		SELECT ` + skillRecordColumns + `
		FROM employee_skills
		WHERE id = $1 AND deleted_at IS NULL`

	return scanSkillRecord(r.q.QueryRow(ctx, query, id))
}

func (r *skillRecordRepository) GetForUpdate(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	query := `
		SELECT ` + skillRecordColumns + `
		FROM employee_skills
		WHERE employee_id = $1 AND skill_id = $2 AND deleted_at IS NULL
		FOR UPDATE`

	return scanSkillRecord(r.q.QueryRow(ctx, query, employeeID, skillID))
}

func (r *skillRecordRepository) Create(ctx context.Context, employeeID, skillID int64, level int, actorID int64) (*models.EmployeeSkill, error) {
	query := `
		INSERT INTO employee_skills (employee_id, skill_id, level, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + skillRecordColumns

	record, err := scanSkillRecord(r.q.QueryRow(ctx, query, employeeID, skillID, level, actorID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return record, nil
}

func (r *skillRecordRepository) UpdateLevel(ctx context.Context, id int64, level int, actorID int64) (*models.EmployeeSkill, error) {
	query := `
		UPDATE employee_skills
		SET level = $2, updated_by = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + skillRecordColumns

	return scanSkillRecord(r.q.QueryRow(ctx, query, id, level, actorID))
}

func (r *skillRecordRepository) CreateBatch(ctx context.Context, pairs []SeedPair, actorID int64) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	employeeIDs := make([]int64, len(pairs))
	skillIDs := make([]int64, len(pairs))
	for i, p := range pairs {
		employeeIDs[i] = p.EmployeeID
		skillIDs[i] = p.SkillID
	}

	query := `
		INSERT INTO employee_skills (employee_id, skill_id, level, updated_by)
		SELECT e, s, 0, $3
		FROM unnest($1::bigint[], $2::bigint[]) AS t(e, s)
		ON CONFLICT (employee_id, skill_id) DO NOTHING`

	tag, err := r.q.Exec(ctx, query, employeeIDs, skillIDs, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to seed employee skills: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *skillRecordRepository) SoftDelete(ctx context.Context, employeeID, skillID int64) (*models.EmployeeSkill, error) {
	query := `
		UPDATE employee_skills
		SET deleted_at = now()
		WHERE employee_id = $1 AND skill_id = $2 AND deleted_at IS NULL
		RETURNING ` + skillRecordColumns

	return scanSkillRecord(r.q.QueryRow(ctx, query, employeeID, skillID))
}

func (r *skillRecordRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*models.EmployeeSkillView, error) {
	query := `
		SELECT es.id, es.employee_id, es.skill_id, es.level, es.updated_by,
		       es.created_at, es.updated_at, es.deleted_at,
		       s.name, o.id, o.name, o.is_critical
		FROM employee_skills es
		JOIN skills s ON s.id = es.skill_id
		JOIN operations o ON o.id = s.operation_id
		WHERE es.employee_id = $1 AND es.deleted_at IS NULL
		ORDER BY o.name, s.name`

	rows, err := r.q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee skills: %w", err)
	}
	defer rows.Close()

	var views []*models.EmployeeSkillView
	for rows.Next() {
		var v models.EmployeeSkillView
		if err := rows.Scan(
			&v.ID, &v.EmployeeID, &v.SkillID, &v.Level, &v.UpdatedBy,
			&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
			&v.SkillName, &v.OperationID, &v.OperationName, &v.IsCritical,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee skill view: %w", err)
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *skillRecordRepository) ListByArea(ctx context.Context, areaID int64, shiftID, classID *int64) ([]*models.AreaSkillRow, error) {
	query := `
		SELECT es.id, es.employee_id, es.skill_id, es.level, es.updated_by,
		       es.created_at, es.updated_at, es.deleted_at,
		       s.name, o.id, o.name, o.is_critical,
		       e.full_name, e.employee_code,
		       e.shift_id, sh.name, e.class_id, c.name
		FROM employee_skills es
		JOIN employees e ON e.id = es.employee_id
		JOIN skills s ON s.id = es.skill_id
		JOIN operations o ON o.id = s.operation_id
		JOIN shifts sh ON sh.id = e.shift_id
		JOIN classes c ON c.id = e.class_id
		WHERE e.area_id = $1 AND o.area_id = $1
		  AND es.deleted_at IS NULL AND e.deleted_at IS NULL
		  AND ($2::bigint IS NULL OR e.shift_id = $2)
		  AND ($3::bigint IS NULL OR e.class_id = $3)
		ORDER BY e.full_name, o.name, s.name`

	rows, err := r.q.Query(ctx, query, areaID, shiftID, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query area skills: %w", err)
	}
	defer rows.Close()

	var result []*models.AreaSkillRow
	for rows.Next() {
		var row models.AreaSkillRow
		if err := rows.Scan(
			&row.ID, &row.EmployeeID, &row.SkillID, &row.Level, &row.UpdatedBy,
			&row.CreatedAt, &row.UpdatedAt, &row.DeletedAt,
			&row.SkillName, &row.OperationID, &row.OperationName, &row.IsCritical,
			&row.EmployeeName, &row.EmployeeCode,
			&row.ShiftID, &row.ShiftName, &row.ClassID, &row.ClassName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan area skill row: %w", err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

func scanSkillRecord(row pgx.Row) (*models.EmployeeSkill, error) {
	var es models.EmployeeSkill
	err := row.Scan(
		&es.ID, &es.EmployeeID, &es.SkillID, &es.Level, &es.UpdatedBy,
		&es.CreatedAt, &es.UpdatedAt, &es.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan employee skill: %w", err)
	}
	return &es, nil
}
