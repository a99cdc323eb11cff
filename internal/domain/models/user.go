package models

// User is the identity collaborator. IsStaff gates moderation.
type User struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	IsStaff  bool   `json:"is_staff" db:"is_staff"`
}
