package models

import "time"

// DefaultProjectColor is applied when a project is created without a color.
const DefaultProjectColor = "#3B82F6"

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(120);not null" json:"name"`
	Description *string       `gorm:"type:text" json:"description"`
	OwnerID     uint64        `gorm:"not null;index" json:"owner_id"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Color       string        `gorm:"type:varchar(7);not null;default:'#3B82F6'" json:"color"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (p Project) Serialize() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": stringOrNil(p.Description),
		"owner_id":    p.OwnerID,
		"status":      string(p.Status),
		"color":       p.Color,
		"created_at":  formatTime(p.CreatedAt),
		"updated_at":  formatTime(p.UpdatedAt),
	}
}
