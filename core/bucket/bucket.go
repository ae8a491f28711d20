package bucket

import "time"

// Bucket is a payment-gated grouping of course content. A student who has
// an approved payment for a bucket can reach its contents and assignments.
type Bucket struct {
	ID        string    `json:"id" db:"bucket_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Name      string    `json:"name" db:"name"`
	Month     string    `json:"month" db:"month"`
	Price     int       `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type BucketNew struct {
	CourseID string `json:"courseId" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required"`
	Month    string `json:"month"`
	Price    int    `json:"price" validate:"gte=0"`
}

type BucketUp struct {
	Name  *string `json:"name"`
	Month *string `json:"month"`
	Price *int    `json:"price" validate:"omitempty,gte=0"`
}
