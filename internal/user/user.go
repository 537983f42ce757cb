package user

import (
	"context"
	"errors"
	"time"
)

// Roles an account can hold. Role is fixed at registration.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// User is a registered account. RollNumber and ClassSection are only ever set
// for students; teacher accounts carry no extra fields beyond the role.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	RollNumber   *string   `json:"rollNumber,omitempty"`
	ClassSection *string   `json:"classSection,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsStudent reports whether the account holds the student role.
func (u *User) IsStudent() bool { return u != nil && u.Role == RoleStudent }

// IsTeacher reports whether the account holds the teacher role.
func (u *User) IsTeacher() bool { return u != nil && u.Role == RoleTeacher }

// ErrUsernameTaken is returned by Create when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// Store is the persistence surface the handlers and services depend on.
// *Repository is the Postgres implementation; tests substitute fakes.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*User, error)
	ListStudents(ctx context.Context, classSection string) ([]User, error)
	CountStudents(ctx context.Context) (int, error)
}
