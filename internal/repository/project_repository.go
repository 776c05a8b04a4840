package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates the project and registers its owner as a member with the owner role.
func (r *GormProjectRepository) CreateWithOwner(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			UserID:    project.OwnerID,
			ProjectID: project.ID,
			Role:      models.RoleOwner,
		}
		return tx.Omit(clause.Associations).Create(member).Error
	})
	return translateError(err)
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

// ListByOwner lists projects owned by a user, newest first
func (r *GormProjectRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&projects).Error; err != nil {
		return nil, translateError(err)
	}
	return projects, nil
}

// ListForMember lists all projects a user is a member of
func (r *GormProjectRepository) ListForMember(ctx context.Context, userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	if err := r.db.WithContext(ctx).Preload("Project").
		Where("user_id = ?", userID).
		Order("joined_at ASC, project_id ASC").
		Find(&memberships).Error; err != nil {
		return nil, translateError(err)
	}
	return memberships, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error)
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete all tasks in the project
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Delete all members
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apierrors.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}

// AddMember upserts a membership keyed by (user_id, project_id)
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return translateError(r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(member).Error)
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC, user_id ASC").
		Find(&members).Error; err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

// CountTasks counts the tasks that belong to a project
func (r *GormProjectRepository) CountTasks(ctx context.Context, projectID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, translateError(err)
}
