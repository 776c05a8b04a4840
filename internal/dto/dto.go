package dto

import (
	"encoding/json"
	"fmt"
	"time"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
)

// UserDTO mirrors models.User.Serialize.
type UserDTO struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	CreatedAt *string `json:"created_at"`
}

// ProjectDTO mirrors models.Project.Serialize.
type ProjectDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     uint64  `json:"owner_id"`
	Status      string  `json:"status"`
	Color       string  `json:"color"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// TaskDTO mirrors models.Task.Serialize.
type TaskDTO struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ProjectID   uint64   `json:"project_id"`
	AssigneeID  *uint64  `json:"assignee_id"`
	Assignee    *UserDTO `json:"assignee"`
	CreatedBy   uint64   `json:"created_by"`
	Creator     *UserDTO `json:"creator"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Position    int      `json:"position"`
	DueDate     *string  `json:"due_date"`
	CreatedAt   *string  `json:"created_at"`
	UpdatedAt   *string  `json:"updated_at"`
}

// DecodeUser rebuilds a user from its serialized map or JSON-decoded equivalent.
func DecodeUser(m map[string]any) (*models.User, error) {
	var d UserDTO
	if err := remarshal(m, &d); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return d.ToModel()
}

// DecodeProject rebuilds a project from its serialized map.
func DecodeProject(m map[string]any) (*models.Project, error) {
	var d ProjectDTO
	if err := remarshal(m, &d); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return d.ToModel()
}

// DecodeTask rebuilds a task, including nested assignee and creator, from its serialized map.
func DecodeTask(m map[string]any) (*models.Task, error) {
	var d TaskDTO
	if err := remarshal(m, &d); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return d.ToModel()
}

func (d UserDTO) ToModel() (*models.User, error) {
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:        d.ID,
		Email:     d.Email,
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		CreatedAt: valueOrZero(createdAt),
	}, nil
}

// ToModel keeps enum values as serialized; an empty status stays empty.
func (d ProjectDTO) ToModel() (*models.Project, error) {
	status := models.ProjectStatus(d.Status)
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", apierrors.ErrInvalidInput, d.Status)
	}
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		Status:      status,
		Color:       d.Color,
		CreatedAt:   valueOrZero(createdAt),
		UpdatedAt:   valueOrZero(updatedAt),
	}, nil
}

// ToModel keeps enum values as serialized; empty status or priority stay empty.
func (d TaskDTO) ToModel() (*models.Task, error) {
	status := models.TaskStatus(d.Status)
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", apierrors.ErrInvalidInput, d.Status)
	}
	priority := models.TaskPriority(d.Priority)
	if priority != "" && !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown task priority %q", apierrors.ErrInvalidInput, d.Priority)
	}
	dueDate, err := parseTime(d.DueDate)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		ProjectID:   d.ProjectID,
		AssigneeID:  d.AssigneeID,
		CreatedBy:   d.CreatedBy,
		Status:      status,
		Priority:    priority,
		Position:    d.Position,
		DueDate:     dueDate,
		CreatedAt:   valueOrZero(createdAt),
		UpdatedAt:   valueOrZero(updatedAt),
	}
	if d.Assignee != nil {
		if task.Assignee, err = d.Assignee.ToModel(); err != nil {
			return nil, err
		}
	}
	if d.Creator != nil {
		if task.Creator, err = d.Creator.ToModel(); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// ToTaskListResponse serializes a page of tasks for list responses.
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) map[string]any {
	items := make([]map[string]any, len(tasks))
	for i, task := range tasks {
		items[i] = task.Serialize()
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return map[string]any{
		"tasks":       items,
		"page":        page,
		"page_size":   pageSize,
		"total_count": totalCount,
		"total_pages": totalPages,
	}
}

// remarshal goes through JSON so that both freshly serialized maps (uint64 ids)
// and maps decoded from a request body (float64 ids) are accepted.
func remarshal(in map[string]any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(models.TimeLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	return &t, nil
}

func valueOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
