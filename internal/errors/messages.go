// file: internal/errors/messages.go

package errors

import (
	stderrors "errors"
	"net/http"

	"coursebook/internal/course"
)

type ErrorMessage struct {
	Code    int
	Status  int
	Message string
}

var (
	ErrInvalidData    = ErrorMessage{Code: 1001, Status: http.StatusBadRequest, Message: "Invalid data"}
	ErrCourseNotFound = ErrorMessage{Code: 1002, Status: http.StatusNotFound, Message: "Course not found"}
	ErrEntityNotFound = ErrorMessage{Code: 1003, Status: http.StatusNotFound, Message: "Student or assignment not found"}
	ErrNoSubmissions  = ErrorMessage{Code: 1004, Status: http.StatusUnprocessableEntity, Message: "No submissions"}
	ErrUnknownMessage = ErrorMessage{Code: 1005, Status: http.StatusBadRequest, Message: "Unknown message type"}
	ErrInternalServer = ErrorMessage{Code: 2000, Status: http.StatusInternalServerError, Message: "Internal server error"}
)

var allErrorMessages = []ErrorMessage{
	ErrInvalidData,
	ErrCourseNotFound,
	ErrEntityNotFound,
	ErrNoSubmissions,
	ErrUnknownMessage,
	ErrInternalServer,
}

// GetErrorMessage 返回给定错误代码的错误消息
func GetErrorMessage(code int) string {
	for _, m := range allErrorMessages {
		if m.Code == code {
			return m.Message
		}
	}
	return "Unknown error"
}

// FromError maps a service error onto its coded message.
func FromError(err error) ErrorMessage {
	switch {
	case err == nil:
		return ErrorMessage{}
	case stderrors.Is(err, course.ErrValidation):
		return ErrInvalidData
	case stderrors.Is(err, course.ErrCourseNotFound):
		return ErrCourseNotFound
	case stderrors.Is(err, course.ErrNotFound):
		return ErrEntityNotFound
	case stderrors.Is(err, course.ErrNoSubmissions):
		return ErrNoSubmissions
	default:
		return ErrInternalServer
	}
}
