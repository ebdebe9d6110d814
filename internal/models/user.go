package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleHR        Role = "HR"
	RoleRecruiter Role = "Recruiter"
)

// ParseRole normalizes a caller-supplied role string. The stored values are
// the canonical "HR" / "Recruiter" forms regardless of input casing.
func ParseRole(s string) (Role, bool) {
	switch {
	case strings.EqualFold(s, string(RoleHR)):
		return RoleHR, true
	case strings.EqualFold(s, string(RoleRecruiter)):
		return RoleRecruiter, true
	default:
		return "", false
	}
}

// User is an application account created from a verified provider identity.
// FirebaseUID and Email are immutable after creation; CompanyID is set once,
// either at creation (recruiters) or during the HR company bootstrap.
type User struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	FirebaseUID string `gorm:"column:firebase_uid;type:varchar(128);uniqueIndex;not null" json:"firebase_uid"`
	Name        string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email       string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Role        Role   `gorm:"column:role;type:varchar(20);not null" json:"role"`

	CompanyID *uint    `gorm:"column:company_id" json:"company_id,omitempty"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }

// CompanyName returns the canonical stored company name, if linked.
func (u *User) CompanyName() string {
	if u.Company != nil {
		return u.Company.Name
	}
	return ""
}
