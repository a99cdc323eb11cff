package services

// Caller identifies the authenticated user driving an operation. It is
// populated from verified JWT claims by the auth middleware, so services
// never re-fetch identity for permission checks.
type Caller struct {
	ID       string
	Username string
	IsStaff  bool
}
