package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// CatalogService manages areas and operations.
type CatalogService interface {
	CreateArea(ctx context.Context, name string, supervisorID *int64, actor Actor) (*models.Area, error)
	GetArea(ctx context.Context, id int64) (*models.Area, error)
	ListAreas(ctx context.Context) ([]*models.Area, error)
	UpdateArea(ctx context.Context, id int64, name string, supervisorID *int64, actor Actor) (*models.Area, error)
	DeleteArea(ctx context.Context, id int64, actor Actor) error
	RestoreArea(ctx context.Context, id int64, actor Actor) (*models.Area, error)

	CreateOperation(ctx context.Context, name string, areaID int64, isCritical bool, actor Actor) (*models.Operation, error)
	GetOperation(ctx context.Context, id int64) (*models.Operation, error)
	ListOperations(ctx context.Context) ([]*models.Operation, error)
	UpdateOperation(ctx context.Context, id int64, name string, areaID int64, isCritical bool, actor Actor) (*models.Operation, error)
	DeleteOperation(ctx context.Context, id int64, actor Actor) error
	RestoreOperation(ctx context.Context, id int64, actor Actor) (*models.Operation, error)
}

type catalogService struct {
	catalog repositories.CatalogRepository
	audit   AuditService
	logger  *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog repositories.CatalogRepository, audit AuditService, logger *zap.Logger) CatalogService {
	return &catalogService{
		catalog: catalog,
		audit:   audit,
		logger:  logger.Named("catalog"),
	}
}

var _ CatalogService = (*catalogService)(nil)

func (s *catalogService) CreateArea(ctx context.Context, name string, supervisorID *int64, actor Actor) (*models.Area, error) {
	area, err := s.catalog.CreateArea(ctx, name, supervisorID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionCreate, models.AuditModuleAreas,
		fmt.Sprintf("Area %q created (ID %d)", name, area.ID))
	return area, nil
}

func (s *catalogService) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	return s.catalog.GetArea(ctx, id)
}

func (s *catalogService) ListAreas(ctx context.Context) ([]*models.Area, error) {
	return s.catalog.ListAreas(ctx)
}

func (s *catalogService) UpdateArea(ctx context.Context, id int64, name string, supervisorID *int64, actor Actor) (*models.Area, error) {
	area, err := s.catalog.UpdateArea(ctx, id, name, supervisorID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionUpdate, models.AuditModuleAreas,
		fmt.Sprintf("Area %d updated", id))
	return area, nil
}

func (s *catalogService) DeleteArea(ctx context.Context, id int64, actor Actor) error {
	if err := s.catalog.SoftDeleteArea(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, models.AuditActionDelete, models.AuditModuleAreas,
		fmt.Sprintf("Area %d deleted", id))
	return nil
}

func (s *catalogService) RestoreArea(ctx context.Context, id int64, actor Actor) (*models.Area, error) {
	area, err := s.catalog.RestoreArea(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionRestore, models.AuditModuleAreas,
		fmt.Sprintf("Area %d restored", id))
	return area, nil
}

func (s *catalogService) CreateOperation(ctx context.Context, name string, areaID int64, isCritical bool, actor Actor) (*models.Operation, error) {
	if _, err := s.catalog.GetArea(ctx, areaID); err != nil {
		return nil, err
	}

	operation, err := s.catalog.CreateOperation(ctx, name, areaID, isCritical)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionCreate, models.AuditModuleOperations,
		fmt.Sprintf("Operation %q created (ID %d)", name, operation.ID))
	return operation, nil
}

func (s *catalogService) GetOperation(ctx context.Context, id int64) (*models.Operation, error) {
	return s.catalog.GetOperation(ctx, id)
}

func (s *catalogService) ListOperations(ctx context.Context) ([]*models.Operation, error) {
	return s.catalog.ListOperations(ctx)
}

func (s *catalogService) UpdateOperation(ctx context.Context, id int64, name string, areaID int64, isCritical bool, actor Actor) (*models.Operation, error) {
	operation, err := s.catalog.UpdateOperation(ctx, id, name, areaID, isCritical)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionUpdate, models.AuditModuleOperations,
		fmt.Sprintf("Operation %d updated", id))
	return operation, nil
}

func (s *catalogService) DeleteOperation(ctx context.Context, id int64, actor Actor) error {
	if err := s.catalog.SoftDeleteOperation(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, models.AuditActionDelete, models.AuditModuleOperations,
		fmt.Sprintf("Operation %d deleted", id))
	return nil
}

func (s *catalogService) RestoreOperation(ctx context.Context, id int64, actor Actor) (*models.Operation, error) {
	operation, err := s.catalog.RestoreOperation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionRestore, models.AuditModuleOperations,
		fmt.Sprintf("Operation %d restored", id))
	return operation, nil
}
