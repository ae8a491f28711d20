package enrollment

import "time"

// Review statuses shared with payment requests: an admin either approves
// or rejects a pending request.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Enrollment struct {
	ID        string    `json:"id" db:"enrollment_id"`
	StudentID string    `json:"studentId" db:"student_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joined for list views.
	StudentNumber string `json:"studentNumber" db:"student_number"`
	StudentName   string `json:"studentName" db:"student_name"`
	CourseName    string `json:"courseName" db:"course_name"`
}

type EnrollmentNew struct {
	CourseID string `json:"courseId" validate:"required,uuid4"`
}

type StatusUp struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type FilterParams struct {
	StudentNumber string
	CourseID      string
	Status        string
}
