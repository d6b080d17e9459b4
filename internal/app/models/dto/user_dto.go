package dto

// UpdateProfileRequest represents profile update data.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName  *string  `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName   *string  `json:"lastName,omitempty" binding:"omitempty,min=1"`
	Company    *string  `json:"company,omitempty"`
	ResumeText *string  `json:"resumeText,omitempty" binding:"omitempty,max=20000"`
	CGPA       *float64 `json:"cgpa,omitempty" binding:"omitempty,gte=0,lte=10" example:"8.5"`
}

// ResumeUploadResponse is returned after a resume file is stored
type ResumeUploadResponse struct {
	ResumeURL string `json:"resumeUrl" example:"http://localhost:8080/uploads/resumes/7/1f0c.pdf"`
}
