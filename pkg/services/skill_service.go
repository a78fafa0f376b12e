package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// SkillService manages the skill catalog. Creating a skill assigns it at
// level 0 to every employee of the owning operation's area.
type SkillService interface {
	Create(ctx context.Context, name string, operationID int64, actor Actor) (*models.SkillDetail, error)
	Get(ctx context.Context, id int64) (*models.SkillDetail, error)
	List(ctx context.Context) ([]*models.SkillDetail, error)
	Update(ctx context.Context, id int64, name string, operationID int64, actor Actor) (*models.SkillDetail, error)
	Delete(ctx context.Context, id int64, actor Actor) error
	Restore(ctx context.Context, id int64, actor Actor) (*models.Skill, error)
}

type skillService struct {
	skills        repositories.SkillRepository
	catalog       repositories.CatalogRepository
	seeding       SeedingService
	audit         AuditService
	notifications NotificationService
	logger        *zap.Logger
}

// NewSkillService creates a new SkillService.
func NewSkillService(
	skills repositories.SkillRepository,
	catalog repositories.CatalogRepository,
	seeding SeedingService,
	audit AuditService,
	notifications NotificationService,
	logger *zap.Logger,
) SkillService {
	return &skillService{
		skills:        skills,
		catalog:       catalog,
		seeding:       seeding,
		audit:         audit,
		notifications: notifications,
		logger:        logger.Named("skills"),
	}
}

var _ SkillService = (*skillService)(nil)

func (s *skillService) Create(ctx context.Context, name string, operationID int64, actor Actor) (*models.SkillDetail, error) {
	operation, err := s.catalog.GetOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}

	skill, err := s.skills.Create(ctx, name, operationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.seeding.SeedSkill(ctx, skill.ID, operation.AreaID, actor.ID); err != nil {
		s.logger.Error("Failed to seed records for new skill",
			zap.Int64("skill_id", skill.ID), zap.Error(err))
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, models.AuditModuleSkills,
		fmt.Sprintf("Skill %q registered (ID %d)", name, skill.ID))
	s.notifications.Notify(ctx, actor.ID, "New skill registered",
		fmt.Sprintf("Skill %q was created under operation %d", name, operationID))

	return s.skills.GetByID(ctx, skill.ID)
}

func (s *skillService) Get(ctx context.Context, id int64) (*models.SkillDetail, error) {
	return s.skills.GetByID(ctx, id)
}

func (s *skillService) List(ctx context.Context) ([]*models.SkillDetail, error) {
	return s.skills.List(ctx)
}

func (s *skillService) Update(ctx context.Context, id int64, name string, operationID int64, actor Actor) (*models.SkillDetail, error) {
	if _, err := s.skills.Update(ctx, id, name, operationID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, models.AuditModuleSkills,
		fmt.Sprintf("Skill %d updated", id))
	s.notifications.Notify(ctx, actor.ID, "Skill updated",
		fmt.Sprintf("You updated skill %d", id))

	return s.skills.GetByID(ctx, id)
}

func (s *skillService) Delete(ctx context.Context, id int64, actor Actor) error {
	if err := s.skills.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, models.AuditActionDelete, models.AuditModuleSkills,
		fmt.Sprintf("Skill %d deleted", id))
	return nil
}

func (s *skillService) Restore(ctx context.Context, id int64, actor Actor) (*models.Skill, error) {
	skill, err := s.skills.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.AuditActionRestore, models.AuditModuleSkills,
		fmt.Sprintf("Skill %d restored", id))
	return skill, nil
}
