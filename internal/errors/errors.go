package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ConflictError represents a uniqueness or duplication conflict
type ConflictError struct {
	Entity  string
	Context string // additional context like "for this task and player"
}

func (e *ConflictError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for ConflictError
func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// InvalidStateError represents a lifecycle transition that requires a row
// which is absent, or otherwise cannot be applied to the current state
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ExternalError represents a failure of an external collaborator (media
// store, cache invalidation). During cascade deletion these are logged and
// never abort the surrounding transaction.
type ExternalError struct {
	Collaborator string
	Err          error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Collaborator, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTeamNotFound         = &NotFoundError{Entity: "team"}
	ErrUserNotFound         = &NotFoundError{Entity: "user"}
	ErrMembershipNotFound   = &NotFoundError{Entity: "membership"}
	ErrAccessCodeNotFound   = &NotFoundError{Entity: "access code"}
	ErrNodeNotFound         = &NotFoundError{Entity: "node"}
	ErrTaskNotFound         = &NotFoundError{Entity: "task"}
	ErrSubmissionNotFound   = &NotFoundError{Entity: "submission"}
	ErrNotificationNotFound = &NotFoundError{Entity: "notification"}
	ErrPlayerNotFound       = &NotFoundError{Entity: "player"}
)

// Conflict Errors
var (
	ErrDuplicateSubmission = &ConflictError{Entity: "submission", Context: "for this task and player"}
	ErrAlreadyCompleted    = &ConflictError{Entity: "completion", Context: "for this task and player"}
	ErrAlreadyMember       = &ConflictError{Entity: "membership", Context: "for this team and user"}
	ErrAccessCodeExhausted = &ConflictError{Entity: "access code", Context: "after exhausting generation retries"}
)

// Business Logic Errors
var (
	ErrAccessCodeExpired    = errors.New("access code has expired")
	ErrTaskOrderMismatch    = errors.New("reorder must list every sibling task exactly once")
	ErrEdgeEndpointMissing  = errors.New("edge references a node outside the incoming set")
	ErrCoachCannotBeRemoved = &InvalidStateError{Message: "coaches cannot be removed as players"}
)

// Authentication Errors
var (
	ErrMissingBearerToken = &AuthenticationError{Message: "missing or malformed bearer token"}
	ErrInvalidToken       = &AuthenticationError{Message: "invalid or expired token"}
	ErrNotATeamMember     = &AuthorizationError{Message: "acting user is not a member of this team"}
	ErrCoachRoleRequired  = &AuthorizationError{Message: "this operation requires the coach role"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsInvalidState checks if an error is an InvalidStateError
func IsInvalidState(err error) bool {
	var stateErr *InvalidStateError
	return errors.As(err, &stateErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternal checks if an error is an ExternalError
func IsExternal(err error) bool {
	var externalErr *ExternalError
	return errors.As(err, &externalErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewConflictError creates a new ConflictError for a custom entity
func NewConflictError(entity, context string) error {
	return &ConflictError{Entity: entity, Context: context}
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(message string) error {
	return &InvalidStateError{Message: message}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewExternalError wraps a collaborator failure
func NewExternalError(collaborator string, err error) error {
	return &ExternalError{Collaborator: collaborator, Err: err}
}
