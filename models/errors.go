package models

import "errors"

// Sentinel errors for the domain. Store methods return these (possibly
// wrapped); handlers map them to HTTP statuses in one place.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrComponentNotFound = errors.New("component not found")
	ErrIssueNotFound     = errors.New("issue not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrMemberNotFound    = errors.New("member not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")

	ErrNotAMember             = errors.New("not a member of this project")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrInvalidCode            = errors.New("invalid project code")
	ErrAlreadyMember          = errors.New("already a member of this project")
	ErrOwnerRoleImmutable     = errors.New("cannot change owner role")
	ErrCannotRemoveOwner      = errors.New("cannot remove project owner")
	ErrCannotRemoveSelf       = errors.New("cannot remove yourself")

	ErrParentNotFound = errors.New("parent component not found")
	ErrParentSelf     = errors.New("component cannot be its own parent")
	ErrParentCycle    = errors.New("component cannot be moved under its own descendant")
	ErrHasChildren    = errors.New("cannot delete component with sub-components")
)

// ValidationError carries a message safe to return to the client as a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
