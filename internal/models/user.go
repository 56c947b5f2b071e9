package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleUser       UserRole = "user"
)

func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

// User is an admin-dashboard account. Login throttling state lives on the
// row, not in process memory, so every server instance sees the same lock.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username     string   `gorm:"size:30;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"isActive"`

	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`
}

// IsLocked reports whether the lock window is still open.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
