package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByIDs loads users by ID in a single query
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]models.User, error) {
	out := make(map[uint64]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Update saves a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Save(user).Error)
}

// Delete removes a user. Owned projects and created tasks block the deletion;
// assignments are cleared and memberships removed in the same transaction.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return err
		}

		var owned int64
		if err := tx.Model(&models.Project{}).Where("owner_id = ?", id).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return fmt.Errorf("%w: user owns %d project(s)", apierrors.ErrHasDependents, owned)
		}

		var created int64
		if err := tx.Model(&models.Task{}).Where("created_by = ?", id).Count(&created).Error; err != nil {
			return err
		}
		if created > 0 {
			return fmt.Errorf("%w: user created %d task(s)", apierrors.ErrHasDependents, created)
		}

		if err := tx.Model(&models.Task{}).Where("assignee_id = ?", id).Update("assignee_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
	return translateError(err)
}
