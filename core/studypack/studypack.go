package studypack

import "time"

// StudyPack is a physical item (printed notes, past papers) tied to a
// bucket, ordered for delivery through the student-orders workflow.
type StudyPack struct {
	ID          string    `json:"id" db:"pack_id"`
	BucketID    string    `json:"bucketId" db:"bucket_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"`
	WeightGrams int       `json:"weightGrams" db:"weight_grams"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type StudyPackNew struct {
	BucketID    string `json:"bucketId" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" validate:"gte=0"`
	WeightGrams int    `json:"weightGrams" validate:"gte=0"`
}
