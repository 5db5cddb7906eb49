// Package catalog is the course and relationship store: courses, tests,
// questions, materials, teaching assignments and enrollments. The
// existence of an assignment or enrollment row is the sole evidence for
// the teaches / enrolled relationships the access layer asks about.
package catalog

import (
	"errors"
	"time"
)

// Course groups tests and materials under a creator.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Test belongs to a course and remembers its creator. Mutation rights
// follow the creator id, not course teaching.
type Test struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	CreatedBy int64     `json:"created_by_user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Question belongs to a test.
type Question struct {
	ID     int64  `json:"id"`
	TestID int64  `json:"test_id"`
	Text   string `json:"question_text"`
	Type   string `json:"question_type"`
	Points int    `json:"points"`
}

// Material is a downloadable resource attached to a course. FilePath is
// a descriptor for the external file store; transfer is not our concern.
type Material struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Title    string `json:"title"`
	FileType string `json:"file_type"`
	FilePath string `json:"file_path,omitempty"`
}

// Details is the enrolled-student view of a course.
type Details struct {
	Course
	Materials []Material `json:"materials"`
	Tests     []Test     `json:"tests"`
}

var (
	ErrNotFound     = errors.New("catalog: not found")
	ErrConflict     = errors.New("catalog: already exists")
	ErrInvalidInput = errors.New("catalog: invalid input")
)
