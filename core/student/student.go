package student

import (
	"time"

	"institute/random"
)

type Student struct {
	ID        string    `json:"id" db:"student_id"`
	Number    string    `json:"studentNumber" db:"student_number"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	District  string    `json:"district" db:"district"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type StudentNew struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
}

type StudentUp struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	District *string `json:"district"`
}

// GenerateNumber makes a human-facing student number. Uniqueness is
// enforced by the database; a clash just fails the insert and the caller
// retries the registration.
func GenerateNumber() string {
	return "ST" + random.Digits(6)
}
