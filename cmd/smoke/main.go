// Command smoke runs an end-to-end check against a live campusgate API:
// register, approve, login, build a course, enroll and read it back.
// Exits non-zero on the first mismatch.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("CAMPUSGATE_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	adminEmail := os.Getenv("CAMPUSGATE_ADMIN_EMAIL")
	adminPassword := os.Getenv("CAMPUSGATE_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("CAMPUSGATE_ADMIN_EMAIL and CAMPUSGATE_ADMIN_PASSWORD are required")
	}

	c := &client{base: base, http: &http.Client{Timeout: 10 * time.Second}}
	suffix := rand.Int63()

	adminToken := c.login(adminEmail, adminPassword)

	teacherEmail := fmt.Sprintf("smoke-teacher-%d@example.com", suffix)
	studentEmail := fmt.Sprintf("smoke-student-%d@example.com", suffix)
	teacherID := c.register("Smoke Teacher", teacherEmail, "smoke-pass", "teacher")
	studentID := c.register("Smoke Student", studentEmail, "smoke-pass", "student")

	// Fresh accounts cannot log in until approved.
	c.expectStatus(http.MethodPost, "/v1/auth/login",
		map[string]any{"email": teacherEmail, "password": "smoke-pass"},
		"", http.StatusForbidden)

	c.expectStatus(http.MethodPost, fmt.Sprintf("/v1/admin/users/%d/approve", teacherID), nil, adminToken, http.StatusOK)
	c.expectStatus(http.MethodPost, fmt.Sprintf("/v1/admin/users/%d/approve", studentID), nil, adminToken, http.StatusOK)

	teacherToken := c.login(teacherEmail, "smoke-pass")
	studentToken := c.login(studentEmail, "smoke-pass")

	courseID := c.createCourse(adminToken, fmt.Sprintf("Smoke Course %d", suffix))
	c.expectStatus(http.MethodPost, fmt.Sprintf("/v1/courses/%d/teachers", courseID),
		map[string]any{"teacher_id": teacherID}, adminToken, http.StatusCreated)

	// Ownership gates: the assigned teacher may add a test, the student
	// must enroll before reading details.
	c.expectStatus(http.MethodPost, fmt.Sprintf("/v1/courses/%d/tests", courseID),
		map[string]any{"title": "Smoke Quiz"}, teacherToken, http.StatusCreated)
	c.expectStatus(http.MethodGet, fmt.Sprintf("/v1/courses/%d/details", courseID),
		nil, studentToken, http.StatusForbidden)
	c.expectStatus(http.MethodPost, "/v1/enrollments",
		map[string]any{"course_id": courseID}, studentToken, http.StatusCreated)
	c.expectStatus(http.MethodGet, fmt.Sprintf("/v1/courses/%d/details", courseID),
		nil, studentToken, http.StatusOK)

	// Cleanup.
	c.expectStatus(http.MethodDelete, fmt.Sprintf("/v1/courses/%d", courseID), nil, adminToken, http.StatusOK)
	c.expectStatus(http.MethodDelete, fmt.Sprintf("/v1/users/%d", teacherID), nil, adminToken, http.StatusOK)
	c.expectStatus(http.MethodDelete, fmt.Sprintf("/v1/users/%d", studentID), nil, adminToken, http.StatusOK)

	fmt.Println("✅ campusgate smoke test passed")
}

type client struct {
	base string
	http *http.Client
}

func (c *client) do(method, path string, body any, token string) *http.Response {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal %s %s: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build %s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (c *client) expectStatus(method, path string, body any, token string, want int) {
	resp := c.do(method, path, body, token)
	defer resp.Body.Close()
	if resp.StatusCode != want {
		log.Fatalf("%s %s: got %d, want %d", method, path, resp.StatusCode, want)
	}
}

func (c *client) login(email, password string) string {
	resp := c.do(http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode login response: %v", err)
	}
	if out.Token == "" {
		log.Fatalf("login %s: empty token", email)
	}
	return out.Token
}

func (c *client) register(name, email, password, role string) int64 {
	resp := c.do(http.MethodPost, "/v1/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	var out struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode register response: %v", err)
	}
	return out.User.ID
}

func (c *client) createCourse(token, title string) int64 {
	resp := c.do(http.MethodPost, "/v1/courses", map[string]any{"title": title}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("create course: status %d", resp.StatusCode)
	}
	var out struct {
		Course struct {
			ID int64 `json:"id"`
		} `json:"course"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode course response: %v", err)
	}
	return out.Course.ID
}
