package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
)

func TestRecord_AppendsEntry(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	svc.Record(context.Background(), testActor(), models.AuditActionUpdateLevel,
		models.AuditModuleEmployeeSkills, "Skill 10 level for employee 1 set to 2")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, int64(7), entry.ActorID)
	assert.Equal(t, "Test Operator", entry.ActorName)
	assert.Equal(t, "10.0.0.1", entry.IP)
	assert.Equal(t, models.AuditModuleEmployeeSkills, entry.Module)
}

func TestRecord_SwallowsRepositoryFailure(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	svc := NewAuditService(repo, zap.NewNop())

	// Must not panic or surface the error; audit writes never block callers.
	svc.Record(context.Background(), testActor(), models.AuditActionCreate,
		models.AuditModuleEmployees, "Employee created")
	assert.Empty(t, repo.entries)
}

func TestRecent_DefaultsLimit(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	_, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
}

func TestExpandDateRange_DateOnlyCoversWholeDay(t *testing.T) {
	from, until, err := ExpandDateRange("2024-03-01", "2024-03-05")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 0, time.Local), until)
}

func TestExpandDateRange_DateTimePassedThrough(t *testing.T) {
	from, until, err := ExpandDateRange("2024-03-01T08:30:00", "2024-03-01T17:00:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2024, 3, 1, 17, 0, 0, 0, time.Local), until)
}

func TestExpandDateRange_EmptyBoundsAreZero(t *testing.T) {
	from, until, err := ExpandDateRange("", "")
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, until.IsZero())
}

func TestExpandDateRange_Invalid(t *testing.T) {
	_, _, err := ExpandDateRange("not-a-date", "")
	assert.Error(t, err)

	_, _, err = ExpandDateRange("", "03/01/2024")
	assert.Error(t, err)
}
