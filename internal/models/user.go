package models

import (
	"time"

	"github.com/yukikurage/project-tracker/internal/password"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    *string   `gorm:"type:varchar(50)" json:"first_name"`
	LastName     *string   `gorm:"type:varchar(50)" json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword replaces the stored hash. The previous hash is discarded.
func (u *User) SetPassword(h password.Hasher, plaintext string) error {
	hashed, err := h.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func (u *User) CheckPassword(h password.Hasher, plaintext string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return h.Verify(plaintext, u.PasswordHash)
}

// Serialize returns the public representation of the user. The password hash
// is never part of it.
func (u User) Serialize() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"first_name": stringOrNil(u.FirstName),
		"last_name":  stringOrNil(u.LastName),
		"created_at": formatTime(u.CreatedAt),
	}
}
