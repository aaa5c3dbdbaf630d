package services

import "errors"

// User-facing failures. Handlers match them with errors.Is and show the text as-is.
var (
	ErrInvalidEmail    = errors.New("Please use an educational email address")
	ErrEmailTaken      = errors.New("Email already registered")
	ErrUserNotFound    = errors.New("User not found")
	ErrInvalidSession  = errors.New("Invalid or expired session")
	ErrProjectNotFound = errors.New("Project not found")
	ErrNotMember       = errors.New("You are not a member of this project")
	ErrEmptyMessage    = errors.New("Cannot send an empty message.")
)
