package assignment

import "time"

type Assignment struct {
	ID          string     `json:"id" db:"assignment_id"`
	BucketID    string     `json:"bucketId" db:"bucket_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	FilePath    string     `json:"filePath" db:"file_path"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type AssignmentNew struct {
	BucketID    string     `json:"bucketId" validate:"required,uuid4"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

type Submission struct {
	ID           string    `json:"id" db:"submission_id"`
	AssignmentID string    `json:"assignmentId" db:"assignment_id"`
	StudentID    string    `json:"studentId" db:"student_id"`
	FilePath     string    `json:"filePath" db:"file_path"`
	Grade        *int      `json:"grade" db:"grade"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SubmissionNew is the JSON half of the multipart submission body; the
// file itself travels in the "file" field.
type SubmissionNew struct {
	Note string `json:"note"`
}

type GradeUp struct {
	Grade int `json:"grade" validate:"gte=0,lte=100"`
}
