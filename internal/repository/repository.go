package repository

import (
	"context"

	"github.com/yukikurage/project-tracker/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIDs loads several users in one query, keyed by ID. Missing IDs are absent from the map.
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]models.User, error)

	// Update saves all columns of a user
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user that owns no projects and created no tasks
	Delete(ctx context.Context, id uint64) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and the owner's membership atomically
	CreateWithOwner(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// ListByOwner lists projects owned by a user
	ListByOwner(ctx context.Context, ownerID uint64) ([]models.Project, error)

	// ListForMember lists memberships of a user with their projects loaded
	ListForMember(ctx context.Context, userID uint64) ([]models.ProjectMember, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project together with its tasks and memberships
	Delete(ctx context.Context, id uint64) error

	// AddMember inserts a membership, or updates the role if the pair already exists
	AddMember(ctx context.Context, member *models.ProjectMember) error

	// RemoveMember removes a membership
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// FindMember finds a specific membership
	FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with their users loaded
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error)

	// CountTasks counts the tasks of a project
	CountTasks(ctx context.Context, projectID uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with assignee and creator loaded
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByProject retrieves tasks of a project with filtering and pagination
	ListByProject(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint64
	Page       int
	PageSize   int
}
