package models

import "time"

// ProjectMember is the association row between a user and a project.
// (user_id, project_id) is the primary key, so a pair can only exist once.
type ProjectMember struct {
	UserID    uint64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProjectID uint64     `gorm:"primaryKey;autoIncrement:false;index" json:"project_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt  time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

func (ProjectMember) TableName() string { return "project_members" }

// Serialize includes the nested user when it was loaded.
func (m ProjectMember) Serialize() map[string]any {
	out := map[string]any{
		"user_id":    m.UserID,
		"project_id": m.ProjectID,
		"role":       string(m.Role),
		"joined_at":  formatTime(m.JoinedAt),
	}
	if m.User != nil {
		out["user"] = m.User.Serialize()
	}
	return out
}
