package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/project-tracker/internal/database"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

// FindByID finds a task by ID and loads its assignee and creator
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		First(&task, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// ListByProject retrieves the tasks of one project ordered by status column and position.
// Relations are not loaded.
func (r *GormTaskRepository) ListByProject(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("tasks.project_id = ?", filter.ProjectID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var tasks []models.Task
	if err := query.
		Order("tasks.status ASC, tasks.position ASC, tasks.id ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&tasks).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return tasks, total, nil
}

// Update updates a task. Loaded relations are ignored; the ID columns are authoritative.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error)
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}
