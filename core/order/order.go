package order

import "time"

// Order tracks a student's study-pack purchase through the shipping
// pipeline. The wire format keeps the snake_case field names the admin
// front end has always consumed.
type Order struct {
	ID            string     `json:"id" db:"order_id"`
	StudentNumber string     `json:"student_number" db:"student_number"`
	PackID        string     `json:"pack_id" db:"pack_id"`
	AddressLine1  string     `json:"address_line1" db:"address_line1"`
	AddressLine2  *string    `json:"address_line2" db:"address_line2"`
	City          string     `json:"city" db:"city"`
	District      string     `json:"district" db:"district"`
	PostalCode    string     `json:"postal_code" db:"postal_code"`
	Phone1        string     `json:"phone1" db:"phone1"`
	Phone2        *string    `json:"phone2" db:"phone2"`
	Status        Status     `json:"order_status" db:"status"`
	TrackingNo    *string    `json:"tracking_no" db:"tracking_no"`
	CODAmount     *int       `json:"cod_amount" db:"cod_amount"`
	WeightGrams   *int       `json:"weight_grams" db:"weight_grams"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	DeliveredAt   *time.Time `json:"delivered_at" db:"delivered_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// OrderNew is the student-facing placement payload.
type OrderNew struct {
	PackID       string  `json:"pack_id" validate:"required,uuid4"`
	AddressLine1 string  `json:"address_line1" validate:"required"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" validate:"required"`
	District     string  `json:"district" validate:"required"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	Phone1       string  `json:"phone1" validate:"required"`
	Phone2       *string `json:"phone2"`
}

// OrderUp is the admin-facing partial update: shipping details and/or a
// status move. Absent fields stay untouched.
type OrderUp struct {
	TrackingNo  *string `json:"tracking_no"`
	CODAmount   *int    `json:"cod_amount" validate:"omitempty,gte=0"`
	WeightGrams *int    `json:"weight_grams" validate:"omitempty,gte=0"`
	Status      *Status `json:"order_status"`
}

type FilterParams struct {
	StudentNumber string
	Status        string
	CourseID      string
	BucketID      string
}
