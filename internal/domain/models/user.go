package models

import (
	"time"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

type UserPlan string

const (
	PlanBasic   UserPlan = "basic"
	PlanPro     UserPlan = "pro"
	PlanPremium UserPlan = "premium"
)

// PlanAppCap is the maximum number of user_apps rows a plan allows.
var PlanAppCap = map[UserPlan]int{
	PlanBasic:   15,
	PlanPro:     25,
	PlanPremium: 30,
}

type Cohort string

const (
	CohortPreview Cohort = "preview"
	CohortFull    Cohort = "full"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Name      string    `json:"name" db:"name"`
	Role      UserRole  `json:"role" db:"role"`
	Cohort    Cohort    `json:"cohort" db:"cohort"`
	Plan      UserPlan  `json:"plan" db:"plan"`
	Credits   int       `json:"credits" db:"credits"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) AppCap() int {
	if n, ok := PlanAppCap[u.Plan]; ok {
		return n
	}
	return PlanAppCap[PlanBasic]
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
