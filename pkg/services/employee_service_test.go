package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
)

func newEmployeeFixture() (*mockSkillRecordRepo, *mockSkillRepo, *mockEmployeeRepo, EmployeeService) {
	records := newMockSkillRecordRepo()
	skills := &mockSkillRepo{areaSkillIDs: map[int64][]int64{}}
	employees := newMockEmployeeRepo()
	logger := zap.NewNop()

	seeding := NewSeedingService(records, skills, employees, logger)
	svc := NewEmployeeService(employees,
		seeding,
		NewAuditService(&mockAuditRepo{}, logger),
		NewNotificationService(&mockNotificationRepo{}, logger),
		logger)
	return records, skills, employees, svc
}

func employeeInput(code string, areaID int64) *models.EmployeeInput {
	return &models.EmployeeInput{
		EmployeeCode: code,
		FullName:     "Jordan Rivera",
		HireDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ShiftID:      1,
		PositionID:   1,
		AreaID:       areaID,
		ClassID:      1,
	}
}

func TestCreateEmployee_SeedsAreaSkills(t *testing.T) {
	records, skills, _, svc := newEmployeeFixture()
	skills.areaSkillIDs[5] = []int64{10, 11}

	employee, err := svc.Create(context.Background(), employeeInput("EMP-001", 5), testActor())
	require.NoError(t, err)

	for _, skillID := range []int64{10, 11} {
		rec := records.find(employee.ID, skillID)
		require.NotNil(t, rec)
		assert.Equal(t, 0, rec.Level)
	}
}

func TestUpdateEmployee_AreaChangeSeedsNewArea(t *testing.T) {
	records, skills, _, svc := newEmployeeFixture()
	skills.areaSkillIDs[5] = []int64{10}
	skills.areaSkillIDs[6] = []int64{20, 21}

	employee, err := svc.Create(context.Background(), employeeInput("EMP-001", 5), testActor())
	require.NoError(t, err)
	records.find(employee.ID, 10).Level = 3

	_, err = svc.Update(context.Background(), employee.ID, employeeInput("EMP-001", 6), testActor())
	require.NoError(t, err)

	// New area skills seeded at level 0; the old-area record and its level
	// survive the move.
	assert.NotNil(t, records.find(employee.ID, 20))
	assert.NotNil(t, records.find(employee.ID, 21))
	assert.Equal(t, 3, records.find(employee.ID, 10).Level)
}

func TestUpdateEmployee_SameAreaDoesNotReseed(t *testing.T) {
	records, skills, _, svc := newEmployeeFixture()
	skills.areaSkillIDs[5] = []int64{10}

	employee, err := svc.Create(context.Background(), employeeInput("EMP-001", 5), testActor())
	require.NoError(t, err)

	// Remove the assignment, then update without changing area.
	_, err = records.SoftDelete(context.Background(), employee.ID, 10)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), employee.ID, employeeInput("EMP-001", 5), testActor())
	require.NoError(t, err)
	assert.Nil(t, records.find(employee.ID, 10))
}
