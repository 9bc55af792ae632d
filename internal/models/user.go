package models

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// IsStaff reports whether the role gets teacher/admin privileges
// (preview attempts, reporting over all students).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Role           Role      `gorm:"size:20;not null" json:"role"`
	StudentNumber  string    `gorm:"size:50;index" json:"student_number,omitempty"`
	Department     string    `gorm:"size:100" json:"department,omitempty"`
	ClassYear      string    `gorm:"size:20" json:"class_year,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	LastActive     time.Time `json:"last_active"`
}
