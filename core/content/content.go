package content

import "time"

const (
	KindVideo    = "video"
	KindDocument = "document"
)

// Content is one gated piece of bucket material. FilePath is relative to
// the upload root; clients prefix it with the file base URL.
type Content struct {
	ID        string    `json:"id" db:"content_id"`
	BucketID  string    `json:"bucketId" db:"bucket_id"`
	Title     string    `json:"title" db:"title"`
	Kind      string    `json:"kind" db:"kind"`
	FilePath  string    `json:"filePath" db:"file_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type ContentNew struct {
	Title string `json:"title" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=video document"`
}
