package service

import "errors"

var (
	// ErrInvalidIdentifier indicates a structurally unusable student id or course key.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrStudentNotFound indicates the student has no feature row in the dataset.
	ErrStudentNotFound = errors.New("student not found")
	// ErrUserNotFound indicates the account does not exist in the credential store.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden indicates the caller may not act on another student's data.
	ErrForbidden = errors.New("forbidden")
)
