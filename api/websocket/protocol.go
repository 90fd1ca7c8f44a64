package protocol

import "encoding/json"

const (
	HeartbeatMessage         = "heartbeat"          // 心跳请求
	HeartbeatResponseMessage = "heartbeat_response" // 心跳响应
	ErrorMessage             = "error"              // 错误响应

	CourseListMessage   = "course_list"
	CourseGetMessage    = "course_get"
	CourseCreateMessage = "course_create"
	CourseDeleteMessage = "course_delete"

	AssignmentCreateMessage = "assignment_create"
	StudentEnrollMessage    = "student_enroll"
	StudentDropoutMessage   = "student_dropout"
	AssignmentSubmitMessage = "assignment_submit"

	AssignmentAverageMessage = "assignment_average"
	StudentAverageMessage    = "student_average"
	TopStudentsMessage       = "top_students"

	CourseSubscribeMessage   = "course_subscribe"   // 订阅课程变更
	CourseUnsubscribeMessage = "course_unsubscribe" // 取消订阅
	CourseUpdatedMessage     = "course_updated"     // 课程变更推送
)

// ResultSuffix is appended to a request type to form its response type.
const ResultSuffix = "_result"

type Message struct {
	Type      string          `json:"type"`
	Code      int             `json:"code"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type CourseRequest struct {
	CourseID string `json:"courseId"`
}

type CreateCourseRequest struct {
	Name string `json:"name"`
}

type CreateAssignmentRequest struct {
	CourseID string `json:"courseId"`
	Name     string `json:"name"`
}

type StudentRequest struct {
	CourseID  string `json:"courseId"`
	StudentID int64  `json:"studentId"`
}

type AssignmentRequest struct {
	CourseID     string `json:"courseId"`
	AssignmentID string `json:"assignmentId"`
}

type SubmitRequest struct {
	CourseID     string `json:"courseId"`
	StudentID    int64  `json:"studentId"`
	AssignmentID string `json:"assignmentId"`
	Grade        *int   `json:"grade"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type ResultResponse struct {
	Success bool `json:"success"`
}

type AverageResponse struct {
	Average int `json:"average"`
}

type TopStudentsResponse struct {
	Students []int64 `json:"students"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type CourseUpdatedEvent struct {
	CourseID string `json:"courseId"`
}
