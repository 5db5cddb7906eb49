package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                "/",
		"/metrics":                        "/metrics",
		"/v1/courses/42":                  "/v1/courses/:id",
		"/v1/courses/42/details":          "/v1/courses/:id/details",
		"/v1/courses/42/tests":            "/v1/courses/:id/tests",
		"/v1/tests/7":                     "/v1/tests/:id",
		"/v1/tests/7/questions":           "/v1/tests/:id/questions",
		"/v1/materials/9/download":        "/v1/materials/:id/download",
		"/v1/users/3":                     "/v1/users/:id",
		"/v1/admin/users/3/approve":       "/v1/admin/users/:id/approve",
		"/v1/admin/users":                 "/v1/admin/users",
		"/v1/enrollments":                 "/v1/enrollments",
		"/v1/courses/42/extra/deep":       "/v1/courses/42/extra/deep",
		"/v1/courses/42/details?full=yes": "/v1/courses/:id/details",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
