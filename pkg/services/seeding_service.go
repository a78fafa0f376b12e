package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/repositories"
)

// SeedingService creates missing level-0 employee-skill records when an
// employee, skill or area relationship is newly established. It bypasses
// the one-step rule because these are initializations, not transitions.
// Repeated invocation is safe: the diff plus the (employee, skill) unique
// constraint means re-running never duplicates records or regresses an
// existing level.
type SeedingService interface {
	// SeedEmployee creates level-0 records for every skill under the
	// area's operations that the employee does not already have.
	SeedEmployee(ctx context.Context, employeeID, areaID, actorID int64) (int64, error)

	// SeedSkill creates level-0 records for every active employee of the
	// area who does not already have the skill.
	SeedSkill(ctx context.Context, skillID, areaID, actorID int64) (int64, error)
}

type seedingService struct {
	records   repositories.SkillRecordRepository
	skills    repositories.SkillRepository
	employees repositories.EmployeeRepository
	logger    *zap.Logger
}

// NewSeedingService creates a new SeedingService.
func NewSeedingService(
	records repositories.SkillRecordRepository,
	skills repositories.SkillRepository,
	employees repositories.EmployeeRepository,
	logger *zap.Logger,
) SeedingService {
	return &seedingService{
		records:   records,
		skills:    skills,
		employees: employees,
		logger:    logger.Named("seeding"),
	}
}

var _ SeedingService = (*seedingService)(nil)

func (s *seedingService) SeedEmployee(ctx context.Context, employeeID, areaID, actorID int64) (int64, error) {
	skillIDs, err := s.skills.ListIDsByArea(ctx, areaID)
	if err != nil {
		return 0, fmt.Errorf("list area skills: %w", err)
	}

	pairs := make([]repositories.SeedPair, len(skillIDs))
	for i, skillID := range skillIDs {
		pairs[i] = repositories.SeedPair{EmployeeID: employeeID, SkillID: skillID}
	}

	created, err := s.records.CreateBatch(ctx, pairs, actorID)
	if err != nil {
		return 0, fmt.Errorf("seed employee skills: %w", err)
	}

	s.logger.Info("Seeded level-0 skill records for employee",
		zap.Int64("employee_id", employeeID),
		zap.Int64("area_id", areaID),
		zap.Int64("created", created))
	return created, nil
}

func (s *seedingService) SeedSkill(ctx context.Context, skillID, areaID, actorID int64) (int64, error) {
	employeeIDs, err := s.employees.ListIDsByArea(ctx, areaID)
	if err != nil {
		return 0, fmt.Errorf("list area employees: %w", err)
	}

	pairs := make([]repositories.SeedPair, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		pairs[i] = repositories.SeedPair{EmployeeID: employeeID, SkillID: skillID}
	}

	created, err := s.records.CreateBatch(ctx, pairs, actorID)
	if err != nil {
		return 0, fmt.Errorf("seed skill records: %w", err)
	}

	s.logger.Info("Seeded level-0 records for new skill",
		zap.Int64("skill_id", skillID),
		zap.Int64("area_id", areaID),
		zap.Int64("created", created))
	return created, nil
}
