// Package httpx provides HTTP response utilities following RFC7807 problem details.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`

	// RequiredRole and ActualRole are set on access-denied problems so
	// the client can render the roles side by side.
	RequiredRole string `json:"required_role,omitempty"`
	ActualRole   string `json:"actual_role,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// DenyProblem sends the access-denied problem carrying both roles.
func DenyProblem(w http.ResponseWriter, required, actual string) {
	JSON(w, http.StatusForbidden, ProblemDetail{
		Title:        "Access Denied",
		Status:       http.StatusForbidden,
		Detail:       fmt.Sprintf("this feature requires %s privileges; your role is %s", required, actual),
		RequiredRole: required,
		ActualRole:   actual,
	})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
