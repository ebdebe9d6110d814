package models

import "time"

// Company is founded by exactly one HR user. HRUserID stays nullable so the
// user row can be inserted before the company row during registration; the
// user's CompanyID is patched afterwards inside the same transaction.
type Company struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`

	HRUserID *uint `gorm:"column:hr_user_id" json:"hr_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Company) TableName() string { return "companies" }
