package payment

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Payment is a request to unlock a bucket. It is either a bank-slip upload
// awaiting admin review or an online checkout bound to a provider session;
// approval is what unlocks the bucket either way.
type Payment struct {
	ID         string    `json:"id" db:"payment_id"`
	StudentID  string    `json:"studentId" db:"student_id"`
	BucketID   string    `json:"bucketId" db:"bucket_id"`
	ProviderID *string   `json:"providerId" db:"provider_id"`
	SlipPath   *string   `json:"slipPath" db:"slip_path"`
	Amount     int       `json:"amount" db:"amount"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	// Joined for list views.
	StudentNumber string `json:"studentNumber" db:"student_number"`
	StudentName   string `json:"studentName" db:"student_name"`
	BucketName    string `json:"bucketName" db:"bucket_name"`
}

// SlipNew is the JSON half of the multipart slip upload; the scanned slip
// travels in the "slip" field.
type SlipNew struct {
	BucketID string `json:"bucketId" validate:"required,uuid4"`
	Amount   int    `json:"amount" validate:"required,gt=0"`
}

type CheckoutNew struct {
	BucketID string `json:"bucketId" validate:"required,uuid4"`
}

type StatusUp struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type FilterParams struct {
	StudentNumber string
	BucketID      string
	Status        string
}
