package service

import (
	"fmt"

	appErrors "github.com/noah-isme/student-directory-api/pkg/errors"
)

// NotFoundError reports that no student owns Email.
type NotFoundError struct {
	Email string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("student with email %s not found", e.Email)
}

// Unwrap exposes the HTTP aware error so response.Error maps it to 404.
func (e *NotFoundError) Unwrap() error {
	return appErrors.Clone(appErrors.ErrNotFound, e.Error())
}

// EmailConflictError reports that Email already belongs to a stored student.
type EmailConflictError struct {
	Email string
}

func (e *EmailConflictError) Error() string {
	return fmt.Sprintf("%s is already in use", e.Email)
}

// Unwrap exposes the HTTP aware error so response.Error maps it to 409.
func (e *EmailConflictError) Unwrap() error {
	return appErrors.Clone(appErrors.ErrEmailInUse, e.Error())
}
