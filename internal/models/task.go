package models

import "time"

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	AssigneeID  *uint64      `gorm:"index" json:"assignee_id"`
	CreatedBy   uint64       `gorm:"not null;index" json:"created_by"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations. Populated only when the repository preloads them.
	Project  *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Assignee *User    `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee"`
	Creator  *User    `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator"`
}

func (t Task) Serialize() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": stringOrNil(t.Description),
		"project_id":  t.ProjectID,
		"assignee_id": idOrNil(t.AssigneeID),
		"assignee":    nestedUser(t.Assignee),
		"created_by":  t.CreatedBy,
		"creator":     nestedUser(t.Creator),
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"position":    t.Position,
		"due_date":    formatTimePtr(t.DueDate),
		"created_at":  formatTime(t.CreatedAt),
		"updated_at":  formatTime(t.UpdatedAt),
	}
}

func nestedUser(u *User) any {
	if u == nil {
		return nil
	}
	return u.Serialize()
}
