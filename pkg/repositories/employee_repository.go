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

// EmployeeRepository provides data access for employees.
type EmployeeRepository interface {
	// Create inserts a new employee. Returns apperrors.ErrConflict when
	// the employee code is already taken.
	Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error)

	// GetByID returns an active employee with references resolved.
	GetByID(ctx context.Context, id int64) (*models.EmployeeDetail, error)

	// GetByCode returns an active employee by unique employee code.
	GetByCode(ctx context.Context, code string) (*models.EmployeeDetail, error)

	// List returns all employees including tombstoned ones; the deletion
	// timestamp is kept visible for audit purposes.
	List(ctx context.Context) ([]*models.EmployeeDetail, error)

	// Update replaces the writable fields of an employee.
	Update(ctx context.Context, id int64, in *models.EmployeeInput) (*models.Employee, error)

	// SoftDelete tombstones an employee.
	SoftDelete(ctx context.Context, id int64) error

	// Restore clears an employee's tombstone.
	Restore(ctx context.Context, id int64) (*models.Employee, error)

	// ListIDsByArea returns active employee IDs assigned to an area.
	ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error)
}

type employeeRepository struct {
	q database.Querier
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db *database.DB) EmployeeRepository {
	return &employeeRepository{q: db.Pool}
}

var _ EmployeeRepository = (*employeeRepository)(nil)

const employeeColumns = `id, employee_code, full_name, hire_date, photo_url,
	shift_id, position_id, area_id, class_id, created_at, updated_at, deleted_at`

const employeeDetailQuery = `
	SELECT e.id, e.employee_code, e.full_name, e.hire_date, e.photo_url,
	       e.shift_id, e.position_id, e.area_id, e.class_id,
	       e.created_at, e.updated_at, e.deleted_at,
	       sh.name, p.name, a.name, c.name
	FROM employees e
	JOIN shifts sh ON sh.id = e.shift_id
	JOIN positions p ON p.id = e.position_id
	JOIN areas a ON a.id = e.area_id
	JOIN classes c ON c.id = e.class_id`

func (r *employeeRepository) Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	query := `
		INSERT INTO employees (employee_code, full_name, hire_date, photo_url, shift_id, position_id, area_id, class_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + employeeColumns

	emp, err := scanEmployee(r.q.QueryRow(ctx, query,
		in.EmployeeCode, in.FullName, in.HireDate, in.PhotoURL,
		in.ShiftID, in.PositionID, in.AreaID, in.ClassID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*models.EmployeeDetail, error) {
	query := employeeDetailQuery + ` WHERE e.id = $1 AND e.deleted_at IS NULL`
	return scanEmployeeDetail(r.q.QueryRow(ctx, query, id))
}

func (r *employeeRepository) GetByCode(ctx context.Context, code string) (*models.EmployeeDetail, error) {
	query := employeeDetailQuery + ` WHERE e.employee_code = $1 AND e.deleted_at IS NULL`
	return scanEmployeeDetail(r.q.QueryRow(ctx, query, code))
}

func (r *employeeRepository) List(ctx context.Context) ([]*models.EmployeeDetail, error) {
	query := employeeDetailQuery + ` ORDER BY e.full_name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.EmployeeDetail
	for rows.Next() {
		emp, err := scanEmployeeDetail(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, id int64, in *models.EmployeeInput) (*models.Employee, error) {
	query := `
		UPDATE employees
		SET employee_code = $2, full_name = $3, hire_date = $4, photo_url = $5,
		    shift_id = $6, position_id = $7, area_id = $8, class_id = $9,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + employeeColumns

	emp, err := scanEmployee(r.q.QueryRow(ctx, query, id,
		in.EmployeeCode, in.FullName, in.HireDate, in.PhotoURL,
		in.ShiftID, in.PositionID, in.AreaID, in.ClassID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE employees SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Restore(ctx context.Context, id int64) (*models.Employee, error) {
	query := `
		UPDATE employees SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING ` + employeeColumns

	return scanEmployee(r.q.QueryRow(ctx, query, id))
}

func (r *employeeRepository) ListIDsByArea(ctx context.Context, areaID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id FROM employees WHERE area_id = $1 AND deleted_at IS NULL`, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by area: %w", err)
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

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.HireDate, &e.PhotoURL,
		&e.ShiftID, &e.PositionID, &e.AreaID, &e.ClassID,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}

func scanEmployeeDetail(row pgx.Row) (*models.EmployeeDetail, error) {
	var e models.EmployeeDetail
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.HireDate, &e.PhotoURL,
		&e.ShiftID, &e.PositionID, &e.AreaID, &e.ClassID,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		&e.ShiftName, &e.PositionName, &e.AreaName, &e.ClassName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan employee detail: %w", err)
	}
	return &e, nil
}
