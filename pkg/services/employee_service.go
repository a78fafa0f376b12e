package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// EmployeeService manages employees and triggers level-0 seeding on the
// events that establish new area relationships.
type EmployeeService interface {
	Create(ctx context.Context, in *models.EmployeeInput, actor Actor) (*models.Employee, error)
	Update(ctx context.Context, id int64, in *models.EmployeeInput, actor Actor) (*models.Employee, error)
	Get(ctx context.Context, id int64) (*models.EmployeeDetail, error)
	GetByCode(ctx context.Context, code string) (*models.EmployeeDetail, error)
	List(ctx context.Context) ([]*models.EmployeeDetail, error)
	Delete(ctx context.Context, id int64, actor Actor) error
	Restore(ctx context.Context, id int64, actor Actor) (*models.Employee, error)
}

type employeeService struct {
	employees     repositories.EmployeeRepository
	seeding       SeedingService
	audit         AuditService
	notifications NotificationService
	logger        *zap.Logger
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(
	employees repositories.EmployeeRepository,
	seeding SeedingService,
	audit AuditService,
	notifications NotificationService,
	logger *zap.Logger,
) EmployeeService {
	return &employeeService{
		employees:     employees,
		seeding:       seeding,
		audit:         audit,
		notifications: notifications,
		logger:        logger.Named("employees"),
	}
}

var _ EmployeeService = (*employeeService)(nil)

func (s *employeeService) Create(ctx context.Context, in *models.EmployeeInput, actor Actor) (*models.Employee, error) {
	employee, err := s.employees.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	// New employees start at level 0 for every skill of their area.
	if _, err := s.seeding.SeedEmployee(ctx, employee.ID, employee.AreaID, actor.ID); err != nil {
		s.logger.Error("Failed to seed skills for new employee",
			zap.Int64("employee_id", employee.ID), zap.Error(err))
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, models.AuditModuleEmployees,
		fmt.Sprintf("Employee %s created (ID %d)", employee.FullName, employee.ID))
	s.notifications.Notify(ctx, actor.ID, "Employee created",
		fmt.Sprintf("Employee %s registered (ID %d)", employee.FullName, employee.ID))

	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, in *models.EmployeeInput, actor Actor) (*models.Employee, error) {
	existing, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	areaChanged := existing.AreaID != in.AreaID

	employee, err := s.employees.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	// Area reassignment seeds the new area's skills at level 0. Records
	// for the old area are intentionally left untouched so the training
	// history survives the move.
	if areaChanged {
		if _, err := s.seeding.SeedEmployee(ctx, id, in.AreaID, actor.ID); err != nil {
			s.logger.Error("Failed to seed skills after area change",
				zap.Int64("employee_id", id), zap.Error(err))
		}
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, models.AuditModuleEmployees,
		fmt.Sprintf("Employee %d updated", id))
	s.notifications.Notify(ctx, actor.ID, "Employee updated",
		fmt.Sprintf("Employee %d was updated", id))

	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, id int64) (*models.EmployeeDetail, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *employeeService) GetByCode(ctx context.Context, code string) (*models.EmployeeDetail, error) {
	return s.employees.GetByCode(ctx, code)
}

func (s *employeeService) List(ctx context.Context) ([]*models.EmployeeDetail, error) {
	return s.employees.List(ctx)
}

func (s *employeeService) Delete(ctx context.Context, id int64, actor Actor) error {
	if err := s.employees.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, models.AuditActionDelete, models.AuditModuleEmployees,
		fmt.Sprintf("Employee %d deleted", id))
	return nil
}

func (s *employeeService) Restore(ctx context.Context, id int64, actor Actor) (*models.Employee, error) {
	employee, err := s.employees.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionRestore, models.AuditModuleEmployees,
		fmt.Sprintf("Employee %d restored", id))
	return employee, nil
}
