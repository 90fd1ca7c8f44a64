package course

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation reports a rejected input such as an empty name.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports a reference to a course, assignment or student that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCourseNotFound is the ErrNotFound raised when the course itself is missing.
	ErrCourseNotFound = fmt.Errorf("course %w", ErrNotFound)
	// ErrNoSubmissions reports an existing entity without any recorded grades.
	ErrNoSubmissions = errors.New("no submissions")
)
