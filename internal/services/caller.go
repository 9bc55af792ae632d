package services

import "github.com/SVIGHNESH/MacQuiz/internal/models"

// Caller is the authenticated identity a request acts as. Role-based
// bypasses are decided once from this value instead of re-checking role
// strings at every call site.
type Caller struct {
	UserID uint
	Role   models.Role
}

func (c Caller) IsStaff() bool {
	return c.Role.IsStaff()
}
