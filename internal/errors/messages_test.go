package errors

import (
	"fmt"
	"testing"

	"coursebook/internal/course"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorMessage
	}{
		{name: "validation", err: fmt.Errorf("%w: empty", course.ErrValidation), want: ErrInvalidData},
		{name: "course missing", err: fmt.Errorf("%w: 42", course.ErrCourseNotFound), want: ErrCourseNotFound},
		{name: "student missing", err: fmt.Errorf("%w: student 7", course.ErrNotFound), want: ErrEntityNotFound},
		{name: "no submissions", err: fmt.Errorf("%w: quiz", course.ErrNoSubmissions), want: ErrNoSubmissions},
		{name: "other", err: fmt.Errorf("redis: connection refused"), want: ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Fatalf("FromError: want=%+v got=%+v", tt.want, got)
			}
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(ErrNoSubmissions.Code); got != ErrNoSubmissions.Message {
		t.Fatalf("GetErrorMessage: want=%q got=%q", ErrNoSubmissions.Message, got)
	}
	if got := GetErrorMessage(9999); got != "Unknown error" {
		t.Fatalf("GetErrorMessage: want=%q got=%q", "Unknown error", got)
	}
}
