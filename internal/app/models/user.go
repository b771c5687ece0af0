package models

import (
	"strings"
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleParent  RoleType = "parent"
	RoleFaculty RoleType = "faculty"
)

// RoleRule lists which identity attributes apply to a role.
type RoleRule struct {
	IssuesStudentCode bool // a student code is generated at registration
	LinksStudent      bool // student_id may point at a student account
	HasRelationship   bool // relationship to the linked student is kept
}

var roleRules = map[RoleType]RoleRule{
	RoleStudent: {IssuesStudentCode: true},
	RoleParent:  {LinksStudent: true, HasRelationship: true},
	RoleFaculty: {},
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (RoleType, bool) {
	r := RoleType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRules[r]
	return r, ok
}

// Rule returns the attribute rules for the role.
func (r RoleType) Rule() RoleRule {
	return roleRules[r]
}

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Email        string     `json:"email" db:"email" example:"a@test.com"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name" example:"Asha"`
	UserType     RoleType   `json:"user_type" db:"user_type" example:"student"`
	StudentID    *int64     `json:"student_id" db:"student_id"`
	StudentCode  *string    `json:"student_code" db:"student_code" example:"ACE-7K2Q9D"`
	Relationship *string    `json:"relationship" db:"relationship" example:"mother"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
