package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"ada@example.com"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName  string    `json:"lastName" db:"last_name" example:"Lovelace"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	Company   *string   `json:"company,omitempty" db:"company"` // recruiters only
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Student profile fields, nil for recruiters or when not provided yet
	ResumeText *string  `json:"resumeText,omitempty" db:"resume_text"`
	ResumeURL  *string  `json:"resumeUrl,omitempty" db:"resume_url"`
	CGPA       *float64 `json:"cgpa,omitempty" db:"cgpa"`
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile extracts the scoring-relevant part of a student
func (u *User) Profile() ApplicantProfile {
	var p ApplicantProfile
	if u.ResumeText != nil {
		p.ResumeText = *u.ResumeText
	}
	if u.CGPA != nil {
		p.AcademicFigure = *u.CGPA
	}
	return p
}

// ApplicantProfile is the subset of a student used for relevance scoring.
// Zero values mean "absent".
type ApplicantProfile struct {
	ResumeText     string
	AcademicFigure float64 // 0-10 scale
}
