package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"campusgate.org/internal/audit"
	"campusgate.org/internal/auth"
)

func (a *API) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	users, err := a.accounts.Users(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserResponses(users)})
}

// handleAdminUserScoped serves /v1/admin/users/pending and
// /v1/admin/users/{id}/approve.
func (a *API) handleAdminUserScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/admin/users/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] == "pending":
		a.handlePendingUsers(w, r)
	case len(parts) == 2 && parts[1] == "approve":
		a.handleApproveUser(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) handlePendingUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	users, err := a.accounts.PendingUsers(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserResponses(users)})
}

func (a *API) handleApproveUser(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := a.accounts.Approve(r.Context(), userID); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.approve", map[string]any{
		"target_user_id": userID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "approved"})
}

// handleUserResource serves DELETE /v1/users/{id}.
func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	rawID := strings.Trim(rest, "/")
	if rawID == "" || strings.Contains(rawID, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := a.accounts.DeleteUser(r.Context(), userID); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.delete", map[string]any{
		"target_user_id": userID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// handleAdminCourses is the admin course listing; the same data as
// /v1/courses but gated to administrators.
func (a *API) handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorize(w, r, policyAdmin, 0) {
		return
	}
	courses, err := a.catalog.ListCourses(r.Context())
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func toUserResponses(users []*auth.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
