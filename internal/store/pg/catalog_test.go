package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"campusgate.org/internal/catalog"
)

func TestTeachesExistenceLookup(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	mock.ExpectQuery("select 1 from teachers_courses").
		WithArgs(int64(10), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	held, err := cat.Teaches(context.Background(), 10, 7)
	if err != nil {
		t.Fatalf("Teaches: %v", err)
	}
	if !held {
		t.Fatal("expected teaching assignment to hold")
	}
}

func TestTeachesNoRowIsFalse(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	mock.ExpectQuery("select 1 from teachers_courses").
		WithArgs(int64(10), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	held, err := cat.Teaches(context.Background(), 10, 7)
	if err != nil {
		t.Fatalf("Teaches: %v", err)
	}
	if held {
		t.Fatal("absent row must read as false, not error")
	}
}

func TestTeachesPropagatesLookupError(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	boom := errors.New("connection reset")
	mock.ExpectQuery("select 1 from teachers_courses").
		WithArgs(int64(10), int64(7)).
		WillReturnError(boom)

	if _, err := cat.Teaches(context.Background(), 10, 7); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to surface, got %v", err)
	}
}

func TestEnrolledExistenceLookup(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	mock.ExpectQuery("select 1 from enrollments").
		WithArgs(int64(20), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	held, err := cat.Enrolled(context.Background(), 20, 7)
	if err != nil {
		t.Fatalf("Enrolled: %v", err)
	}
	if held {
		t.Fatal("absent row must read as false")
	}
}

func TestEnrollMapsConstraintViolations(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()
	ctx := context.Background()

	mock.ExpectExec("insert into enrollments").
		WithArgs(int64(20), int64(7)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := cat.Enroll(ctx, 20, 7); !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("duplicate enrollment: expected ErrConflict, got %v", err)
	}

	mock.ExpectExec("insert into enrollments").
		WithArgs(int64(20), int64(9999)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	if err := cat.Enroll(ctx, 20, 9999); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("unknown course: expected ErrNotFound, got %v", err)
	}
}

func TestAssignTeacherMapsConstraintViolations(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()
	ctx := context.Background()

	mock.ExpectExec("insert into teachers_courses").
		WithArgs(int64(10), int64(7)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := cat.AssignTeacher(ctx, 10, 7); !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("duplicate assignment: expected ErrConflict, got %v", err)
	}
}

func TestCreateTestReturnsRow(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "course_id", "created_by_user_id", "title", "created_at"}).
		AddRow(int64(3), int64(7), int64(10), "Quiz 1", created)
	mock.ExpectQuery("insert into tests").
		WithArgs(int64(7), int64(10), "Quiz 1").
		WillReturnRows(rows)

	test, err := cat.CreateTest(context.Background(), 7, 10, "Quiz 1")
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}
	if test.ID != 3 || test.CreatedBy != 10 {
		t.Fatalf("unexpected test: %+v", test)
	}
}

func TestUpdateTestTitleIsCreatorScoped(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()
	ctx := context.Background()

	mock.ExpectExec("update tests set title").
		WithArgs("New title", int64(3), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := cat.UpdateTestTitle(ctx, 3, 11, "New title"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("foreign creator: expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec("update tests set title").
		WithArgs("New title", int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := cat.UpdateTestTitle(ctx, 3, 10, "New title"); err != nil {
		t.Fatalf("UpdateTestTitle: %v", err)
	}
}

func TestDeleteTestIsCreatorScoped(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	mock.ExpectExec("delete from tests").
		WithArgs(int64(3), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := cat.DeleteTest(context.Background(), 3, 11); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("foreign creator: expected ErrNotFound, got %v", err)
	}
}

func TestGetMaterial(t *testing.T) {
	store, mock := newMockStore(t)
	cat := store.Catalog()

	rows := sqlmock.NewRows([]string{"id", "course_id", "title", "file_type", "file_path"}).
		AddRow(int64(5), int64(7), "Syllabus", "pdf", "files/syllabus.pdf")
	mock.ExpectQuery("select id, course_id, title, file_type, file_path").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	m, err := cat.GetMaterial(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetMaterial: %v", err)
	}
	if m.CourseID != 7 || m.FilePath != "files/syllabus.pdf" {
		t.Fatalf("unexpected material: %+v", m)
	}

	mock.ExpectQuery("select id, course_id, title, file_type, file_path").
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "file_type", "file_path"}))
	if _, err := cat.GetMaterial(context.Background(), 6); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
