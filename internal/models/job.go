package models

import "time"

type Job struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string `gorm:"column:description;type:text;not null" json:"description"`

	CompanyID   uint     `gorm:"column:company_id;index;not null" json:"company_id"`
	Company     *Company `gorm:"foreignKey:CompanyID" json:"-"`
	RecruiterID uint     `gorm:"column:recruiter_id;index;not null" json:"recruiter_id"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }
