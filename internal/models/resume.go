package models

import (
	"time"

	"gorm.io/datatypes"
)

type ResumeStatus string

const (
	ResumePending     ResumeStatus = "pending"
	ResumeShortlisted ResumeStatus = "shortlisted"
	ResumeInterviewed ResumeStatus = "interviewed"
	ResumeRejected    ResumeStatus = "rejected"
	ResumeHired       ResumeStatus = "hired"
)

func ValidResumeStatus(s string) (ResumeStatus, bool) {
	switch ResumeStatus(s) {
	case ResumePending, ResumeShortlisted, ResumeInterviewed, ResumeRejected, ResumeHired:
		return ResumeStatus(s), true
	default:
		return "", false
	}
}

type Resume struct {
	ID uint `gorm:"column:id;primaryKey" json:"id"`

	// Object key in the resume bucket, not a public URL.
	FilePath      string `gorm:"column:file_path;type:text;not null" json:"file_path"`
	ExtractedText string `gorm:"column:extracted_text;type:text;not null" json:"extracted_text"`

	// Structured data pulled out of the resume (skills, experience, ...).
	Profile datatypes.JSON `gorm:"column:profile;type:jsonb" json:"profile,omitempty"`

	Status ResumeStatus `gorm:"column:status;type:varchar(50);not null;default:pending" json:"status"`

	JobID       uint `gorm:"column:job_id;index;not null" json:"job_id"`
	Job         *Job `gorm:"foreignKey:JobID" json:"-"`
	RecruiterID uint `gorm:"column:recruiter_id;index;not null" json:"recruiter_id"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Resume) TableName() string { return "resumes" }
