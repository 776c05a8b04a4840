package models

import (
	"fmt"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}

// ParseProjectStatus validates raw input. An empty string yields the default.
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	if raw == "" {
		return ProjectStatusActive, nil
	}
	s := ProjectStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown project status %q", apierrors.ErrInvalidInput, raw)
	}
	return s, nil
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus validates raw input. An empty string yields the default.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	if raw == "" {
		return TaskStatusTodo, nil
	}
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown task status %q", apierrors.ErrInvalidInput, raw)
	}
	return s, nil
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// ParseTaskPriority validates raw input. An empty string yields the default.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	if raw == "" {
		return TaskPriorityMedium, nil
	}
	p := TaskPriority(raw)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown task priority %q", apierrors.ErrInvalidInput, raw)
	}
	return p, nil
}

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// ParseMemberRole validates raw input. An empty string yields the default.
func ParseMemberRole(raw string) (MemberRole, error) {
	if raw == "" {
		return RoleMember, nil
	}
	r := MemberRole(raw)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown member role %q", apierrors.ErrInvalidInput, raw)
	}
	return r, nil
}
