package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker/internal/password"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/token"
)

// Services bundles the application services built over one persistence context.
type Services struct {
	Users    *UserService
	Projects *ProjectService
	Tasks    *TaskService

	db *gorm.DB
}

// New wires repositories and services for db.
func New(db *gorm.DB, hasher password.Hasher, issuer *token.Issuer, log *zap.Logger) *Services {
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return &Services{
		Users:    NewUserService(userRepo, hasher, issuer, log),
		Projects: NewProjectService(projectRepo, log),
		Tasks:    NewTaskService(taskRepo, projectRepo, userRepo, log),
		db:       db,
	}
}

// Ping checks that the database behind the services answers.
func (s *Services) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
