package attendance

import "errors"

// Validation failures surfaced by the session manager and check-in
// validator. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrInvalidFaculty   = errors.New("faculty not found or not a faculty user")
	ErrInvalidSection   = errors.New("section not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidToken     = errors.New("token does not match session")
	ErrSessionExpired   = errors.New("session expired")
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateCheckin = errors.New("student already checked in for this session")
	ErrDuplicateUser    = errors.New("user id already exists")
	ErrUserReferenced   = errors.New("user still owns sections or attendance")
)
