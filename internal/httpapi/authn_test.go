package httpapi

import "testing"

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"  Bearer abc  ", "abc", true},
		{"", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
	}
	for _, tc := range cases {
		token, err := extractBearerToken(tc.header)
		if tc.ok && err != nil {
			t.Fatalf("extractBearerToken(%q): unexpected error %v", tc.header, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("extractBearerToken(%q): expected error", tc.header)
		}
		if token != tc.token {
			t.Fatalf("extractBearerToken(%q): got %q, want %q", tc.header, token, tc.token)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	public := []string{"/v1/auth/register", "/v1/auth/login", "/v1/info", "/metrics", "/healthz", "/readyz", "/"}
	for _, p := range public {
		if !isPublicPath(p) {
			t.Fatalf("expected %q public", p)
		}
	}
	protected := []string{"/v1/auth/me", "/v1/courses", "/v1/admin/users", "/v1/auth/login/extra"}
	for _, p := range protected {
		if isPublicPath(p) {
			t.Fatalf("expected %q protected", p)
		}
	}
}
