package course

import "time"

type Course struct {
	ID          string    `json:"id" db:"course_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Grade       string    `json:"grade" db:"grade"`
	Free        bool      `json:"free" db:"free"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CourseNew struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Grade       string `json:"grade"`
	Free        bool   `json:"free"`
}

type CourseUp struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Grade       *string `json:"grade"`
	Free        *bool   `json:"free"`
}
