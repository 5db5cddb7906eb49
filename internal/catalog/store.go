package catalog

import "context"

// Store defines the catalog operations the API and the access layer
// depend on. Implementations return ErrNotFound for missing rows and
// ErrConflict for uniqueness violations.
type Store interface {
	CreateCourse(ctx context.Context, title, description string, createdBy int64) (Course, error)
	GetCourse(ctx context.Context, id int64) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	// DeleteCourse removes the course and cascades to its assignments,
	// enrollments, tests and materials.
	DeleteCourse(ctx context.Context, id int64) error
	CourseDetails(ctx context.Context, id int64) (Details, error)

	AssignTeacher(ctx context.Context, teacherID, courseID int64) error
	CoursesByTeacher(ctx context.Context, teacherID int64) ([]Course, error)

	Enroll(ctx context.Context, studentID, courseID int64) error
	CoursesByStudent(ctx context.Context, studentID int64) ([]Course, error)

	CreateTest(ctx context.Context, courseID, createdBy int64, title string) (Test, error)
	// UpdateTestTitle and DeleteTest are creator-scoped: they report
	// ErrNotFound when the test does not exist or the caller did not
	// create it, without distinguishing the two.
	UpdateTestTitle(ctx context.Context, testID, createdBy int64, title string) error
	DeleteTest(ctx context.Context, testID, createdBy int64) error
	QuestionsByTest(ctx context.Context, testID int64) ([]Question, error)

	GetMaterial(ctx context.Context, id int64) (Material, error)

	// Teaches and Enrolled are the ownership predicates. One lookup per
	// call, no caching.
	Teaches(ctx context.Context, teacherID, courseID int64) (bool, error)
	Enrolled(ctx context.Context, studentID, courseID int64) (bool, error)
}
