package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yukikurage/project-tracker/internal/database"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
)

var (
	ErrTitleRequired    = fmt.Errorf("%w: title is required", apierrors.ErrInvalidInput)
	ErrNegativePosition = fmt.Errorf("%w: position cannot be negative", apierrors.ErrInvalidInput)
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string `validate:"required,max=200"`
	Description *string
	ProjectID   uint64 `validate:"required"`
	AssigneeID  *uint64
	CreatedBy   uint64 `validate:"required"`
	Status      string
	Priority    string
	Position    int `validate:"gte=0"`
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title            *string `validate:"omitnil,min=1,max=200"`
	Description      *string
	ClearDescription bool
	Status           *string
	Priority         *string
	Position         *int `validate:"omitnil,gte=0"`
	AssigneeID       *uint64
	ClearAssignee    bool
	DueDate          *time.Time
	ClearDueDate     bool
}

// ListTasksInput represents filters for listing the tasks of a project
type ListTasksInput struct {
	ProjectID  uint64
	Status     string
	Priority   string
	AssigneeID *uint64
	Page       int
	PageSize   int
}

// CreateTask validates input and creates a task. Missing project, creator or
// assignee rows surface as apierrors.ErrInvalidReference from the store.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	status, err := models.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := models.ParseTaskPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   input.CreatedBy,
		Status:      status,
		Priority:    priority,
		Position:    input.Position,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Debug("task created", zap.Uint64("task_id", task.ID), zap.Uint64("project_id", task.ProjectID))
	return s.GetTask(ctx, task.ID)
}

// GetTask returns a task with assignee and creator loaded
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.ClearDescription {
		task.Description = nil
	} else if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		status, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := models.ParseTaskPriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListTasks returns one page of a project's tasks and the total match count
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	filter := repository.TaskFilter{
		ProjectID:  input.ProjectID,
		AssigneeID: input.AssigneeID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if filter.Page > 0 && filter.PageSize <= 0 {
		filter.PageSize = database.DefaultPageSize
	}
	if input.Status != "" {
		status, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, err := models.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, 0, err
		}
		filter.Priority = &priority
	}

	tasks, total, err := s.taskRepo.ListByProject(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	if err := s.attachUsers(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// attachUsers loads the assignees and creators of a page of tasks in one query.
func (s *TaskService) attachUsers(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	seen := make(map[uint64]bool)
	var ids []uint64
	for _, task := range tasks {
		candidates := []uint64{task.CreatedBy}
		if task.AssigneeID != nil {
			candidates = append(candidates, *task.AssigneeID)
		}
		for _, id := range candidates {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load task users: %w", err)
	}

	for i := range tasks {
		if creator, ok := users[tasks[i].CreatedBy]; ok {
			tasks[i].Creator = &creator
		}
		if tasks[i].AssigneeID != nil {
			if assignee, ok := users[*tasks[i].AssigneeID]; ok {
				tasks[i].Assignee = &assignee
			}
		}
	}
	return nil
}
