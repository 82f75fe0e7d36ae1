package models

import "time"

// Course is created by an instructor and owns its videos, assignments,
// enrollments and optional cover image.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Instructor  string    `json:"instructor" db:"instructor"`
	Image       *string   `json:"image,omitempty" db:"image"` // blob reference, nullable
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Material is a video or an assignment row. Both tables share this shape.
type Material struct {
	ID        int64        `json:"id" db:"id"`
	Kind      MaterialKind `json:"kind"`
	CourseID  int64        `json:"courseId" db:"course_id"`
	Title     string       `json:"title" db:"title"`
	Filename  string       `json:"filename" db:"filename"` // blob reference
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}

// Enrollment links a user to a course (the user_courses table).
type Enrollment struct {
	ID       int64 `json:"id" db:"id"`
	UserID   int64 `json:"userId" db:"user_id"`
	CourseID int64 `json:"courseId" db:"course_id"`
}
