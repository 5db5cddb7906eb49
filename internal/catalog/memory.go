package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type pair struct {
	userID   int64
	courseID int64
}

// InMemory implements Store with in-process concurrency safety. It
// backs the HTTP test suites and local development; production uses the
// Postgres store.
type InMemory struct {
	mu          sync.RWMutex
	nextID      int64
	courses     map[int64]*Course
	tests       map[int64]*Test
	questions   map[int64]*Question
	materials   map[int64]*Material
	assignments map[pair]struct{}
	enrollments map[pair]struct{}
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty catalog.
func NewInMemory() *InMemory {
	return &InMemory{
		courses:     make(map[int64]*Course),
		tests:       make(map[int64]*Test),
		questions:   make(map[int64]*Question),
		materials:   make(map[int64]*Material),
		assignments: make(map[pair]struct{}),
		enrollments: make(map[pair]struct{}),
	}
}

func (s *InMemory) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

func (s *InMemory) CreateCourse(ctx context.Context, title, description string, createdBy int64) (Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Course{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Course{
		ID:          s.nextIDLocked(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	s.courses[c.ID] = c
	return *c, nil
}

func (s *InMemory) GetCourse(ctx context.Context, id int64) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return *c, nil
}

func (s *InMemory) ListCourses(ctx context.Context) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) DeleteCourse(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	for p := range s.assignments {
		if p.courseID == id {
			delete(s.assignments, p)
		}
	}
	for p := range s.enrollments {
		if p.courseID == id {
			delete(s.enrollments, p)
		}
	}
	for tid, t := range s.tests {
		if t.CourseID == id {
			delete(s.tests, tid)
			for qid, q := range s.questions {
				if q.TestID == tid {
					delete(s.questions, qid)
				}
			}
		}
	}
	for mid, m := range s.materials {
		if m.CourseID == id {
			delete(s.materials, mid)
		}
	}
	return nil
}

func (s *InMemory) CourseDetails(ctx context.Context, id int64) (Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return Details{}, ErrNotFound
	}
	d := Details{Course: *c, Materials: []Material{}, Tests: []Test{}}
	for _, m := range s.materials {
		if m.CourseID == id {
			listed := *m
			listed.FilePath = ""
			d.Materials = append(d.Materials, listed)
		}
	}
	for _, t := range s.tests {
		if t.CourseID == id {
			d.Tests = append(d.Tests, *t)
		}
	}
	sort.Slice(d.Materials, func(i, j int) bool { return d.Materials[i].ID < d.Materials[j].ID })
	sort.Slice(d.Tests, func(i, j int) bool { return d.Tests[i].ID < d.Tests[j].ID })
	return d, nil
}

func (s *InMemory) AssignTeacher(ctx context.Context, teacherID, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return ErrNotFound
	}
	p := pair{userID: teacherID, courseID: courseID}
	if _, ok := s.assignments[p]; ok {
		return ErrConflict
	}
	s.assignments[p] = struct{}{}
	return nil
}

// RemoveTeacher deletes a teaching assignment. Used by tests to prove
// the predicate flips on the next lookup.
func (s *InMemory) RemoveTeacher(teacherID, courseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, pair{userID: teacherID, courseID: courseID})
}

func (s *InMemory) CoursesByTeacher(ctx context.Context, teacherID int64) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Course
	for p := range s.assignments {
		if p.userID != teacherID {
			continue
		}
		if c, ok := s.courses[p.courseID]; ok {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Enroll(ctx context.Context, studentID, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return ErrNotFound
	}
	p := pair{userID: studentID, courseID: courseID}
	if _, ok := s.enrollments[p]; ok {
		return ErrConflict
	}
	s.enrollments[p] = struct{}{}
	return nil
}

func (s *InMemory) CoursesByStudent(ctx context.Context, studentID int64) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Course
	for p := range s.enrollments {
		if p.userID != studentID {
			continue
		}
		if c, ok := s.courses[p.courseID]; ok {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) CreateTest(ctx context.Context, courseID, createdBy int64, title string) (Test, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Test{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return Test{}, ErrNotFound
	}
	t := &Test{
		ID:        s.nextIDLocked(),
		CourseID:  courseID,
		CreatedBy: createdBy,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	s.tests[t.ID] = t
	return *t, nil
}

func (s *InMemory) UpdateTestTitle(ctx context.Context, testID, createdBy int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[testID]
	if !ok || t.CreatedBy != createdBy {
		return ErrNotFound
	}
	t.Title = title
	return nil
}

func (s *InMemory) DeleteTest(ctx context.Context, testID, createdBy int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[testID]
	if !ok || t.CreatedBy != createdBy {
		return ErrNotFound
	}
	delete(s.tests, testID)
	for qid, q := range s.questions {
		if q.TestID == testID {
			delete(s.questions, qid)
		}
	}
	return nil
}

func (s *InMemory) QuestionsByTest(ctx context.Context, testID int64) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Question{}
	for _, q := range s.questions {
		if q.TestID == testID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) GetMaterial(ctx context.Context, id int64) (Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[id]
	if !ok {
		return Material{}, ErrNotFound
	}
	return *m, nil
}

// AddMaterial registers a material against a course. Uploads live in an
// external collaborator; this is the seed path for tests and dev.
func (s *InMemory) AddMaterial(courseID int64, title, fileType, filePath string) (Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return Material{}, ErrNotFound
	}
	m := &Material{
		ID:       s.nextIDLocked(),
		CourseID: courseID,
		Title:    title,
		FileType: fileType,
		FilePath: filePath,
	}
	s.materials[m.ID] = m
	return *m, nil
}

// AddQuestion registers a question against a test. Seed path for tests
// and dev.
func (s *InMemory) AddQuestion(testID int64, text, qtype string, points int) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[testID]; !ok {
		return Question{}, ErrNotFound
	}
	q := &Question{
		ID:     s.nextIDLocked(),
		TestID: testID,
		Text:   text,
		Type:   qtype,
		Points: points,
	}
	s.questions[q.ID] = q
	return *q, nil
}

func (s *InMemory) Teaches(ctx context.Context, teacherID, courseID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assignments[pair{userID: teacherID, courseID: courseID}]
	return ok, nil
}

func (s *InMemory) Enrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollments[pair{userID: studentID, courseID: courseID}]
	return ok, nil
}
