// Package admin holds the wire shapes of the key-guarded admin API used by
// clinicbookctl.
package admin

// SetRoleRequest is the body of POST /v1/admin/users/{id}/role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// User is the admin-facing projection of a credential record.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
}

// ListUsersResponse is a page of users.
type ListUsersResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	Users   []User `json:"users"`
}

// SetRoleResponse acknowledges a role change.
type SetRoleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
}
