package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
)

var (
	ErrProjectNameRequired = fmt.Errorf("%w: project name cannot be empty", apierrors.ErrInvalidInput)
	ErrInvalidColor        = fmt.Errorf("%w: color must look like #RRGGBB", apierrors.ErrInvalidInput)
	ErrCannotRemoveOwner   = fmt.Errorf("%w: the project owner cannot be removed", apierrors.ErrInvalidInput)
	ErrCannotAssignOwner   = fmt.Errorf("%w: the owner role is reserved for the project owner", apierrors.ErrInvalidInput)
)

// ProjectService provides business logic for projects and their members.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	log         *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		log:         log,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string `validate:"required,max=120"`
	Description *string
	OwnerID     uint64 `validate:"required"`
	Status      string
	Color       string `validate:"omitempty,hexcolor,len=7"`
}

// UpdateProjectInput carries the fields to change; nil means unchanged.
type UpdateProjectInput struct {
	Name             *string `validate:"omitnil,min=1,max=120"`
	Description      *string
	ClearDescription bool
	Status           *string
	Color            *string `validate:"omitnil,hexcolor,len=7"`
}

// CreateProject creates a project and makes the owner its first member.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	status, err := models.ParseProjectStatus(input.Status)
	if err != nil {
		return nil, err
	}
	color := input.Color
	if color == "" {
		color = models.DefaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Status:      status,
		Color:       color,
	}
	if err := s.projectRepo.CreateWithOwner(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created", zap.Uint64("project_id", project.ID), zap.Uint64("owner_id", project.OwnerID))
	return project, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject applies a partial update to a project.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.ClearDescription {
		project.Description = nil
	} else if input.Description != nil {
		project.Description = input.Description
	}
	if input.Status != nil {
		status, err := models.ParseProjectStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		project.Status = status
	}
	if input.Color != nil {
		project.Color = *input.Color
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project with all its tasks and memberships.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	taskCount, err := s.projectRepo.CountTasks(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count project tasks: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.log.Info("project deleted", zap.Uint64("project_id", id), zap.Int64("tasks_removed", taskCount))
	return nil
}

// ListProjectsForUser returns the memberships of a user with projects loaded.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// ListOwnedProjects returns the projects a user owns.
func (s *ProjectService) ListOwnedProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}
	return projects, nil
}

// AddMember adds a user to a project, or changes the role of an existing member.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uint64, role string) (*models.ProjectMember, error) {
	parsed, err := models.ParseMemberRole(role)
	if err != nil {
		return nil, err
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if parsed == models.RoleOwner && userID != project.OwnerID {
		return nil, ErrCannotAssignOwner
	}
	if userID == project.OwnerID {
		parsed = models.RoleOwner
	}

	member := &models.ProjectMember{
		UserID:    userID,
		ProjectID: projectID,
		Role:      parsed,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}

	return s.projectRepo.FindMember(ctx, projectID, userID)
}

// RemoveMember removes a member from the project. The owner always stays.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ListMembers returns all members of a project.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the project.
func (s *ProjectService) IsMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	_, err := s.projectRepo.FindMember(ctx, projectID, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apierrors.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify membership: %w", err)
	}
}
