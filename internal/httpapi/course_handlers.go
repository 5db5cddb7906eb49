package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"campusgate.org/internal/audit"
	"campusgate.org/internal/auth"
	"campusgate.org/internal/stream"
)

type createCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type assignTeacherRequest struct {
	TeacherID int64 `json:"teacher_id"`
}

type createTestRequest struct {
	Title string `json:"title"`
}

type updateTestRequest struct {
	Title string `json:"title"`
}

type enrollRequest struct {
	CourseID int64 `json:"course_id"`
}

func (a *API) handleCoursesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !a.authorize(w, r, policyStudent, 0) {
			return
		}
		courses, err := a.catalog.ListCourses(r.Context())
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
	case http.MethodPost:
		if !a.authorize(w, r, policyAdmin, 0) {
			return
		}
		var req createCourseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, r, http.StatusBadRequest, "title is required")
			return
		}
		identity, _ := auth.IdentityFromContext(r.Context())
		course, err := a.catalog.CreateCourse(r.Context(), req.Title, req.Description, identity.UserID)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "course.create", map[string]any{
			"course_id": course.ID,
		})
		a.stream.Publish(stream.ActivityEvent{
			Event:    "course.create",
			UserID:   identity.UserID,
			CourseID: course.ID,
			Subject:  course.Title,
		})
		writeJSON(w, http.StatusCreated, map[string]any{"course": course})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCourseScoped serves everything under /v1/courses/: the teacher's
// own listing at "my", and the per-course resource with its details,
// tests and teachers subresources.
func (a *API) handleCourseScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/courses/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) == 1 && parts[0] == "my" {
		a.handleMyCourses(w, r)
		return
	}

	courseID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || courseID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	switch {
	case len(parts) == 1:
		a.handleCourseResource(w, r, courseID)
	case len(parts) == 2 && parts[1] == "details":
		a.handleCourseDetails(w, r, courseID)
	case len(parts) == 2 && parts[1] == "tests":
		a.handleCourseTests(w, r, courseID)
	case len(parts) == 2 && parts[1] == "teachers":
		a.handleCourseTeachers(w, r, courseID)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) handleMyCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyTeacher, 0) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	courses, err := a.catalog.CoursesByTeacher(r.Context(), identity.UserID)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (a *API) handleCourseResource(w http.ResponseWriter, r *http.Request, courseID int64) {
	switch r.Method {
	case http.MethodGet:
		if !a.authorize(w, r, policyAnyRole, 0) {
			return
		}
		course, err := a.catalog.GetCourse(r.Context(), courseID)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"course": course})
	case http.MethodDelete:
		if !a.authorize(w, r, policyAdmin, 0) {
			return
		}
		if err := a.catalog.DeleteCourse(r.Context(), courseID); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "course.delete", map[string]any{
			"course_id": courseID,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) handleCourseDetails(w http.ResponseWriter, r *http.Request, courseID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyCourseStudent, courseID) {
		return
	}
	details, err := a.catalog.CourseDetails(r.Context(), courseID)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"course": details})
}

func (a *API) handleCourseTests(w http.ResponseWriter, r *http.Request, courseID int64) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.authorize(w, r, policyCourseTeacher, courseID) {
		return
	}
	var req createTestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	test, err := a.catalog.CreateTest(r.Context(), courseID, identity.UserID, req.Title)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "test.create", map[string]any{
		"test_id":   test.ID,
		"course_id": courseID,
	})
	a.stream.Publish(stream.ActivityEvent{
		Event:    "test.create",
		UserID:   identity.UserID,
		CourseID: courseID,
		Subject:  test.Title,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"test": test})
}

func (a *API) handleCourseTeachers(w http.ResponseWriter, r *http.Request, courseID int64) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	var req assignTeacherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.TeacherID <= 0 {
		writeError(w, r, http.StatusBadRequest, "teacher_id is required")
		return
	}
	if err := a.catalog.AssignTeacher(r.Context(), req.TeacherID, courseID); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "course.assign_teacher", map[string]any{
		"course_id":  courseID,
		"teacher_id": req.TeacherID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "assigned"})
}

// handleTestScoped serves /v1/tests/{id} and /v1/tests/{id}/questions.
func (a *API) handleTestScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/tests/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	testID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || testID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid test id")
		return
	}

	switch {
	case len(parts) == 1:
		a.handleTestResource(w, r, testID)
	case len(parts) == 2 && parts[1] == "questions":
		a.handleTestQuestions(w, r, testID)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) handleTestResource(w http.ResponseWriter, r *http.Request, testID int64) {
	switch r.Method {
	case http.MethodPut:
		if !a.authorize(w, r, policyTeacher, 0) {
			return
		}
		var req updateTestRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, r, http.StatusBadRequest, "title is required")
			return
		}
		identity, _ := auth.IdentityFromContext(r.Context())
		if err := a.catalog.UpdateTestTitle(r.Context(), testID, identity.UserID, req.Title); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "test.update", map[string]any{
			"test_id": testID,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
	case http.MethodDelete:
		if !a.authorize(w, r, policyTeacher, 0) {
			return
		}
		identity, _ := auth.IdentityFromContext(r.Context())
		if err := a.catalog.DeleteTest(r.Context(), testID, identity.UserID); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "test.delete", map[string]any{
			"test_id": testID,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleTestQuestions(w http.ResponseWriter, r *http.Request, testID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyTeacherOrAdmin, 0) {
		return
	}
	questions, err := a.catalog.QuestionsByTest(r.Context(), testID)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (a *API) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.authorize(w, r, policyStudent, 0) {
		return
	}
	var req enrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CourseID <= 0 {
		writeError(w, r, http.StatusBadRequest, "course_id is required")
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	if err := a.catalog.Enroll(r.Context(), identity.UserID, req.CourseID); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "course.enroll", map[string]any{
		"course_id": req.CourseID,
	})
	a.stream.Publish(stream.ActivityEvent{
		Event:    "course.enroll",
		UserID:   identity.UserID,
		CourseID: req.CourseID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "enrolled"})
}

func (a *API) handleMyEnrollments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyStudent, 0) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	courses, err := a.catalog.CoursesByStudent(r.Context(), identity.UserID)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// handleMaterialScoped serves /v1/materials/{id}/download. The material
// is resolved first so an unknown id reads as 404 regardless of the
// caller's standing with the owning course.
func (a *API) handleMaterialScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/materials/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "download" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	materialID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || materialID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid material id")
		return
	}
	material, err := a.catalog.GetMaterial(r.Context(), materialID)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	if !a.authorize(w, r, policyCourseMember, material.CourseID) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	_ = audit.LogEvent(r.Context(), "material.download", map[string]any{
		"material_id": materialID,
		"course_id":   material.CourseID,
	})
	a.stream.Publish(stream.ActivityEvent{
		Event:    "material.download",
		UserID:   identity.UserID,
		CourseID: material.CourseID,
		Subject:  material.Title,
	})
	writeJSON(w, http.StatusOK, map[string]any{"material": material})
}
