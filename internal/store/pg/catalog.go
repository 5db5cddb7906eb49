package pg

import (
	"context"
	"database/sql"
	"errors"

	"campusgate.org/internal/catalog"
)

// Catalog exposes the course/relationship store backed by this store.
func (s *Store) Catalog() catalog.Store { return &catalogStore{db: s.db} }

type catalogStore struct{ db *sql.DB }

var _ catalog.Store = (*catalogStore)(nil)

func (s *catalogStore) CreateCourse(ctx context.Context, title, description string, createdBy int64) (catalog.Course, error) {
	var c catalog.Course
	err := s.db.QueryRowContext(ctx, `
		insert into courses (title, description, created_by_user_id)
		values ($1, $2, $3)
		returning id, title, description, created_by_user_id, created_at
	`, title, description, createdBy).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return catalog.Course{}, err
	}
	return c, nil
}

func (s *catalogStore) GetCourse(ctx context.Context, id int64) (catalog.Course, error) {
	var c catalog.Course
	err := s.db.QueryRowContext(ctx, `
		select id, title, description, created_by_user_id, created_at
		from courses
		where id = $1
	`, id).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Course{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Course{}, err
	}
	return c, nil
}

func (s *catalogStore) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	return s.listCourses(ctx, `
		select id, title, description, created_by_user_id, created_at
		from courses
		order by id
	`)
}

func (s *catalogStore) listCourses(ctx context.Context, query string, args ...any) ([]catalog.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Course
	for rows.Next() {
		var c catalog.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCourse relies on on-delete-cascade constraints for assignments,
// enrollments, tests, questions and materials.
func (s *catalogStore) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from courses where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *catalogStore) CourseDetails(ctx context.Context, id int64) (catalog.Details, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return catalog.Details{}, err
	}
	details := catalog.Details{Course: course, Materials: []catalog.Material{}, Tests: []catalog.Test{}}

	rows, err := s.db.QueryContext(ctx, `
		select id, course_id, title, file_type
		from materials
		where course_id = $1
		order by id
	`, id)
	if err != nil {
		return catalog.Details{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var m catalog.Material
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.FileType); err != nil {
			return catalog.Details{}, err
		}
		details.Materials = append(details.Materials, m)
	}
	if err := rows.Err(); err != nil {
		return catalog.Details{}, err
	}

	testRows, err := s.db.QueryContext(ctx, `
		select id, course_id, created_by_user_id, title, created_at
		from tests
		where course_id = $1
		order by id
	`, id)
	if err != nil {
		return catalog.Details{}, err
	}
	defer testRows.Close()
	for testRows.Next() {
		var t catalog.Test
		if err := testRows.Scan(&t.ID, &t.CourseID, &t.CreatedBy, &t.Title, &t.CreatedAt); err != nil {
			return catalog.Details{}, err
		}
		details.Tests = append(details.Tests, t)
	}
	if err := testRows.Err(); err != nil {
		return catalog.Details{}, err
	}
	return details, nil
}

func (s *catalogStore) AssignTeacher(ctx context.Context, teacherID, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `
		insert into teachers_courses (user_id, course_id)
		values ($1, $2)
	`, teacherID, courseID)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return catalog.ErrConflict
			case pgErrForeignKeyViolation:
				return catalog.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *catalogStore) CoursesByTeacher(ctx context.Context, teacherID int64) ([]catalog.Course, error) {
	return s.listCourses(ctx, `
		select c.id, c.title, c.description, c.created_by_user_id, c.created_at
		from courses c
		join teachers_courses tc on c.id = tc.course_id
		where tc.user_id = $1
		order by c.id
	`, teacherID)
}

func (s *catalogStore) Enroll(ctx context.Context, studentID, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `
		insert into enrollments (user_id, course_id)
		values ($1, $2)
	`, studentID, courseID)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return catalog.ErrConflict
			case pgErrForeignKeyViolation:
				return catalog.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *catalogStore) CoursesByStudent(ctx context.Context, studentID int64) ([]catalog.Course, error) {
	return s.listCourses(ctx, `
		select c.id, c.title, c.description, c.created_by_user_id, c.created_at
		from courses c
		join enrollments e on c.id = e.course_id
		where e.user_id = $1
		order by c.id
	`, studentID)
}

func (s *catalogStore) CreateTest(ctx context.Context, courseID, createdBy int64, title string) (catalog.Test, error) {
	var t catalog.Test
	err := s.db.QueryRowContext(ctx, `
		insert into tests (course_id, created_by_user_id, title)
		values ($1, $2, $3)
		returning id, course_id, created_by_user_id, title, created_at
	`, courseID, createdBy, title).Scan(&t.ID, &t.CourseID, &t.CreatedBy, &t.Title, &t.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return catalog.Test{}, catalog.ErrNotFound
		}
		return catalog.Test{}, err
	}
	return t, nil
}

// UpdateTestTitle scopes the update to the creator in one statement, so
// "missing" and "not yours" are indistinguishable to the caller.
func (s *catalogStore) UpdateTestTitle(ctx context.Context, testID, createdBy int64, title string) error {
	res, err := s.db.ExecContext(ctx, `
		update tests set title = $1
		where id = $2 and created_by_user_id = $3
	`, title, testID, createdBy)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *catalogStore) DeleteTest(ctx context.Context, testID, createdBy int64) error {
	res, err := s.db.ExecContext(ctx, `
		delete from tests
		where id = $1 and created_by_user_id = $2
	`, testID, createdBy)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *catalogStore) QuestionsByTest(ctx context.Context, testID int64) ([]catalog.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, test_id, question_text, question_type, points
		from questions
		where test_id = $1
		order by id
	`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []catalog.Question{}
	for rows.Next() {
		var q catalog.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.Text, &q.Type, &q.Points); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogStore) GetMaterial(ctx context.Context, id int64) (catalog.Material, error) {
	var m catalog.Material
	err := s.db.QueryRowContext(ctx, `
		select id, course_id, title, file_type, file_path
		from materials
		where id = $1
	`, id).Scan(&m.ID, &m.CourseID, &m.Title, &m.FileType, &m.FilePath)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Material{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Material{}, err
	}
	return m, nil
}

// Teaches issues exactly one existence lookup. Errors surface to the
// caller so the access layer can fail closed.
func (s *catalogStore) Teaches(ctx context.Context, teacherID, courseID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		select 1 from teachers_courses
		where user_id = $1 and course_id = $2
	`, teacherID, courseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *catalogStore) Enrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		select 1 from enrollments
		where user_id = $1 and course_id = $2
	`, studentID, courseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
