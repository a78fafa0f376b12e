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

// CatalogRepository provides data access for areas and operations.
type CatalogRepository interface {
	CreateArea(ctx context.Context, name string, supervisorID *int64) (*models.Area, error)
	GetArea(ctx context.Context, id int64) (*models.Area, error)
	ListAreas(ctx context.Context) ([]*models.Area, error)
	UpdateArea(ctx context.Context, id int64, name string, supervisorID *int64) (*models.Area, error)
	SoftDeleteArea(ctx context.Context, id int64) error
	RestoreArea(ctx context.Context, id int64) (*models.Area, error)

	CreateOperation(ctx context.Context, name string, areaID int64, isCritical bool) (*models.Operation, error)
	GetOperation(ctx context.Context, id int64) (*models.Operation, error)
	ListOperations(ctx context.Context) ([]*models.Operation, error)
	UpdateOperation(ctx context.Context, id int64, name string, areaID int64, isCritical bool) (*models.Operation, error)
	SoftDeleteOperation(ctx context.Context, id int64) error
	RestoreOperation(ctx context.Context, id int64) (*models.Operation, error)
}

type catalogRepository struct {
	q database.Querier
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *database.DB) CatalogRepository {
	return &catalogRepository{q: db.Pool}
}

var _ CatalogRepository = (*catalogRepository)(nil)

const areaColumns = `id, name, supervisor_id, created_at, updated_at, deleted_at`
const operationColumns = `id, name, area_id, is_critical, created_at, updated_at, deleted_at`

func (r *catalogRepository) CreateArea(ctx context.Context, name string, supervisorID *int64) (*models.Area, error) {
	query := `INSERT INTO areas (name, supervisor_id) VALUES ($1, $2) RETURNING ` + areaColumns

	area, err := scanArea(r.q.QueryRow(ctx, query, name, supervisorID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return area, nil
}

func (r *catalogRepository) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	query := `SELECT ` + areaColumns + ` FROM areas WHERE id = $1 AND deleted_at IS NULL`
	return scanArea(r.q.QueryRow(ctx, query, id))
}

func (r *catalogRepository) ListAreas(ctx context.Context) ([]*models.Area, error) {
	rows, err := r.q.Query(ctx, `SELECT `+areaColumns+` FROM areas WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	var areas []*models.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

func (r *catalogRepository) UpdateArea(ctx context.Context, id int64, name string, supervisorID *int64) (*models.Area, error) {
	query := `
		UPDATE areas SET name = $2, supervisor_id = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + areaColumns

	area, err := scanArea(r.q.QueryRow(ctx, query, id, name, supervisorID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return area, nil
}

func (r *catalogRepository) SoftDeleteArea(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE areas SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) RestoreArea(ctx context.Context, id int64) (*models.Area, error) {
	query := `
		UPDATE areas SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING ` + areaColumns
	return scanArea(r.q.QueryRow(ctx, query, id))
}

func (r *catalogRepository) CreateOperation(ctx context.Context, name string, areaID int64, isCritical bool) (*models.Operation, error) {
	query := `INSERT INTO operations (name, area_id, is_critical) VALUES ($1, $2, $3) RETURNING ` + operationColumns
	return scanOperation(r.q.QueryRow(ctx, query, name, areaID, isCritical))
}

func (r *catalogRepository) GetOperation(ctx context.Context, id int64) (*models.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1 AND deleted_at IS NULL`
	return scanOperation(r.q.QueryRow(ctx, query, id))
}

func (r *catalogRepository) ListOperations(ctx context.Context) ([]*models.Operation, error) {
	rows, err := r.q.Query(ctx, `SELECT `+operationColumns+` FROM operations WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var ops []*models.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (r *catalogRepository) UpdateOperation(ctx context.Context, id int64, name string, areaID int64, isCritical bool) (*models.Operation, error) {
	query := `
		UPDATE operations SET name = $2, area_id = $3, is_critical = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + operationColumns
	return scanOperation(r.q.QueryRow(ctx, query, id, name, areaID, isCritical))
}

func (r *catalogRepository) SoftDeleteOperation(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE operations SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) RestoreOperation(ctx context.Context, id int64) (*models.Operation, error) {
	query := `
		UPDATE operations SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING ` + operationColumns
	return scanOperation(r.q.QueryRow(ctx, query, id))
}

func scanArea(row pgx.Row) (*models.Area, error) {
	var a models.Area
	err := row.Scan(&a.ID, &a.Name, &a.SupervisorID, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan area: %w", err)
	}
	return &a, nil
}

func scanOperation(row pgx.Row) (*models.Operation, error) {
	var o models.Operation
	err := row.Scan(&o.ID, &o.Name, &o.AreaID, &o.IsCritical, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan operation: %w", err)
	}
	return &o, nil
}
