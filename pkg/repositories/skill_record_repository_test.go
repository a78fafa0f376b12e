package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/testhelpers"
)

// fixtures holds IDs of the reference rows integration tests hang off.
type fixtures struct {
	userID     int64
	areaID     int64
	skillID    int64
	skillID2   int64
	employeeID int64
}

var fixtureSeq int

// setupFixtures inserts the reference rows a skill record needs. Each call
// uses fresh unique values so tests sharing the container don't collide.
func setupFixtures(t *testing.T, db *database.DB) fixtures {
	t.Helper()
	ctx := context.Background()
	fixtureSeq++
	tag := fmt.Sprintf("t%d-%s", fixtureSeq, t.Name())

	var f fixtures
	var shiftID, positionID, classID, operationID int64

	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO shifts (name) VALUES ($1) RETURNING id`, "shift-"+tag).Scan(&shiftID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO positions (name) VALUES ($1) RETURNING id`, "position-"+tag).Scan(&positionID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO classes (name) VALUES ($1) RETURNING id`, "class-"+tag).Scan(&classID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO users (username, first_name, last_name, password_hash)
		 VALUES ($1, 'Test', 'User', 'x') RETURNING id`, "user-"+tag).Scan(&f.userID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO areas (name) VALUES ($1) RETURNING id`, "area-"+tag).Scan(&f.areaID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO operations (name, area_id) VALUES ($1, $2) RETURNING id`,
		"operation-"+tag, f.areaID).Scan(&operationID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO skills (name, operation_id) VALUES ($1, $2) RETURNING id`,
		"skill-"+tag, operationID).Scan(&f.skillID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO skills (name, operation_id) VALUES ($1, $2) RETURNING id`,
		"skill2-"+tag, operationID).Scan(&f.skillID2))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO employees (employee_code, full_name, hire_date, shift_id, position_id, area_id, class_id)
		 VALUES ($1, 'Jordan Rivera', now(), $2, $3, $4, $5) RETURNING id`,
		"emp-"+tag, shiftID, positionID, f.areaID, classID).Scan(&f.employeeID))

	return f
}

func TestSkillRecordRepository_Lifecycle(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	f := setupFixtures(t, testDB.DB)
	repo := NewSkillRecordRepository(testDB.DB)
	ctx := context.Background()

	// Create and read back.
	created, err := repo.Create(ctx, f.employeeID, f.skillID, 1, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, f.userID, created.UpdatedBy)

	got, err := repo.Get(ctx, f.employeeID, f.skillID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Duplicate pair hits the unique constraint.
	_, err = repo.Create(ctx, f.employeeID, f.skillID, 0, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Level update.
	updated, err := repo.UpdateLevel(ctx, created.ID, 2, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Level)

	// Soft delete tombstones the pair.
	deleted, err := repo.SoftDelete(ctx, f.employeeID, f.skillID)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	_, err = repo.Get(ctx, f.employeeID, f.skillID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSkillRecordRepository_CreateBatch(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	f := setupFixtures(t, testDB.DB)
	repo := NewSkillRecordRepository(testDB.DB)
	ctx := context.Background()

	pairs := []SeedPair{
		{EmployeeID: f.employeeID, SkillID: f.skillID},
		{EmployeeID: f.employeeID, SkillID: f.skillID2},
	}

	created, err := repo.CreateBatch(ctx, pairs, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	rec, err := repo.Get(ctx, f.employeeID, f.skillID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Level)

	// Re-running is a no-op: the existing records keep their state.
	_, err = repo.UpdateLevel(ctx, rec.ID, 1, f.userID)
	require.NoError(t, err)

	created, err = repo.CreateBatch(ctx, pairs, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), created)

	rec, err = repo.Get(ctx, f.employeeID, f.skillID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Level)
}

func TestSkillRecordRepository_TransactLocksRecord(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	f := setupFixtures(t, testDB.DB)
	repo := NewSkillRecordRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, f.employeeID, f.skillID, 1, f.userID)
	require.NoError(t, err)

	err = repo.Transact(ctx, func(tx SkillRecordRepository) error {
		locked, err := tx.GetForUpdate(ctx, f.employeeID, f.skillID)
		if err != nil {
			return err
		}
		_, err = tx.UpdateLevel(ctx, locked.ID, 2, f.userID)
		return err
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
}

func TestSkillRecordRepository_TransactRollsBackOnError(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	f := setupFixtures(t, testDB.DB)
	repo := NewSkillRecordRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, f.employeeID, f.skillID, 1, f.userID)
	require.NoError(t, err)

	err = repo.Transact(ctx, func(tx SkillRecordRepository) error {
		if _, err := tx.UpdateLevel(ctx, created.ID, 2, f.userID); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
}

func TestSkillRecordRepository_ListByEmployee(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	f := setupFixtures(t, testDB.DB)
	repo := NewSkillRecordRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, f.employeeID, f.skillID, 2, f.userID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, f.employeeID, f.skillID2, 0, f.userID)
	require.NoError(t, err)

	views, err := repo.ListByEmployee(ctx, f.employeeID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotEmpty(t, v.SkillName)
		assert.NotEmpty(t, v.OperationName)
	}
}
