package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coursebook/api/websocket"
	"coursebook/internal/course"
	e "coursebook/internal/errors"
	"coursebook/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseService 是 Hub 依赖的课程用例集合
type CourseService interface {
	GetCourses(ctx context.Context) ([]*course.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*course.Course, error)
	CreateCourse(ctx context.Context, name string) (uuid.UUID, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) (bool, error)
	CreateAssignment(ctx context.Context, courseID uuid.UUID, name string) (uuid.UUID, error)
	EnrollStudent(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (bool, error)
	DropoutStudent(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (bool, error)
	SubmitAssignment(ctx context.Context, courseID uuid.UUID, studentID course.StudentID, assignmentID uuid.UUID, grade int) (bool, error)
	AssignmentGradeAverage(ctx context.Context, courseID, assignmentID uuid.UUID) (int, error)
	StudentGradeAverage(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (int, error)
	TopFiveStudents(ctx context.Context, courseID uuid.UUID) ([]course.StudentID, error)
}

type handlerFunc func(c *Client, ctx context.Context, data json.RawMessage) (any, error)

// invalidDataError marks a malformed request payload.
type invalidDataError struct{ err error }

func (i invalidDataError) Error() string { return i.err.Error() }
func (i invalidDataError) Unwrap() error { return i.err }

func invalid(format string, args ...any) error {
	return invalidDataError{err: fmt.Errorf(format, args...)}
}

var handlers = map[string]handlerFunc{
	protocol.HeartbeatMessage:         (*Client).handleHeartbeat,
	protocol.CourseListMessage:        (*Client).handleCourseList,
	protocol.CourseGetMessage:         (*Client).handleCourseGet,
	protocol.CourseCreateMessage:      (*Client).handleCourseCreate,
	protocol.CourseDeleteMessage:      (*Client).handleCourseDelete,
	protocol.AssignmentCreateMessage:  (*Client).handleAssignmentCreate,
	protocol.StudentEnrollMessage:     (*Client).handleStudentEnroll,
	protocol.StudentDropoutMessage:    (*Client).handleStudentDropout,
	protocol.AssignmentSubmitMessage:  (*Client).handleAssignmentSubmit,
	protocol.AssignmentAverageMessage: (*Client).handleAssignmentAverage,
	protocol.StudentAverageMessage:    (*Client).handleStudentAverage,
	protocol.TopStudentsMessage:       (*Client).handleTopStudents,
	protocol.CourseSubscribeMessage:   (*Client).handleCourseSubscribe,
	protocol.CourseUnsubscribeMessage: (*Client).handleCourseUnsubscribe,
}

// dispatch 根据消息类型调用处理函数并生成响应
func (c *Client) dispatch(msg protocol.Message) []byte {
	handler, ok := handlers[msg.Type]
	if !ok {
		c.hub.logger.Warn("Unknown message type", zap.String("type", msg.Type))
		return errorMessage(msg.RequestID, e.ErrUnknownMessage, fmt.Errorf("unknown message type %q", msg.Type))
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := handler(c, ctx, msg.Data)
	if err != nil {
		em := e.FromError(err)
		var bad invalidDataError
		if errors.As(err, &bad) {
			em = e.ErrInvalidData
		}
		if em.Code == e.ErrInternalServer.Code {
			c.hub.logger.Error("Request failed", zap.String("type", msg.Type), zap.Error(err))
		}
		return errorMessage(msg.RequestID, em, err)
	}

	responseType := msg.Type + protocol.ResultSuffix
	if msg.Type == protocol.HeartbeatMessage {
		responseType = protocol.HeartbeatResponseMessage
	}
	return marshalMessage(responseType, msg.RequestID, CodeSuccess, result)
}

// handleHeartbeat 处理心跳消息
func (c *Client) handleHeartbeat(context.Context, json.RawMessage) (any, error) {
	return "pong", nil
}

func (c *Client) handleCourseList(ctx context.Context, _ json.RawMessage) (any, error) {
	courses, err := c.hub.courses.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromCourses(courses), nil
}

func (c *Client) handleCourseGet(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CourseRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	found, err := c.hub.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return models.FromCourse(found), nil
}

func (c *Client) handleCourseCreate(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CreateCourseRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	id, err := c.hub.courses.CreateCourse(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return protocol.IDResponse{ID: id.String()}, nil
}

func (c *Client) handleCourseDelete(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CourseRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	deleted, err := c.hub.courses.DeleteCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if deleted {
		c.hub.NotifyCourseChanged(courseID)
	}
	return protocol.ResultResponse{Success: deleted}, nil
}

// handleAssignmentCreate 处理创建作业消息
func (c *Client) handleAssignmentCreate(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CreateAssignmentRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	id, err := c.hub.courses.CreateAssignment(ctx, courseID, req.Name)
	if err != nil {
		return nil, err
	}
	c.hub.NotifyCourseChanged(courseID)
	return protocol.IDResponse{ID: id.String()}, nil
}

func (c *Client) handleStudentEnroll(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.StudentRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	ok, err := c.hub.courses.EnrollStudent(ctx, courseID, course.StudentID(req.StudentID))
	if err != nil {
		return nil, err
	}
	if ok {
		c.hub.NotifyCourseChanged(courseID)
	}
	return protocol.ResultResponse{Success: ok}, nil
}

func (c *Client) handleStudentDropout(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.StudentRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	ok, err := c.hub.courses.DropoutStudent(ctx, courseID, course.StudentID(req.StudentID))
	if err != nil {
		return nil, err
	}
	if ok {
		c.hub.NotifyCourseChanged(courseID)
	}
	return protocol.ResultResponse{Success: ok}, nil
}

// handleAssignmentSubmit 处理成绩提交消息
func (c *Client) handleAssignmentSubmit(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.SubmitRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := parseID("assignmentId", req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if req.Grade == nil {
		return nil, invalid("grade is required")
	}
	ok, err := c.hub.courses.SubmitAssignment(ctx, courseID, course.StudentID(req.StudentID), assignmentID, *req.Grade)
	if err != nil {
		return nil, err
	}
	if ok {
		c.hub.NotifyCourseChanged(courseID)
	}
	return protocol.ResultResponse{Success: ok}, nil
}

func (c *Client) handleAssignmentAverage(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.AssignmentRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := parseID("assignmentId", req.AssignmentID)
	if err != nil {
		return nil, err
	}
	avg, err := c.hub.courses.AssignmentGradeAverage(ctx, courseID, assignmentID)
	if err != nil {
		return nil, err
	}
	return protocol.AverageResponse{Average: avg}, nil
}

func (c *Client) handleStudentAverage(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.StudentRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	avg, err := c.hub.courses.StudentGradeAverage(ctx, courseID, course.StudentID(req.StudentID))
	if err != nil {
		return nil, err
	}
	return protocol.AverageResponse{Average: avg}, nil
}

func (c *Client) handleTopStudents(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CourseRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	top, err := c.hub.courses.TopFiveStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return protocol.TopStudentsResponse{Students: models.StudentIDs(top)}, nil
}

// handleCourseSubscribe 订阅课程变更推送，课程必须存在
func (c *Client) handleCourseSubscribe(ctx context.Context, data json.RawMessage) (any, error) {
	var req protocol.CourseRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	if _, err := c.hub.courses.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return protocol.ResultResponse{Success: c.hub.sessions.Subscribe(c.session.ID, courseID)}, nil
}

func (c *Client) handleCourseUnsubscribe(_ context.Context, data json.RawMessage) (any, error) {
	var req protocol.CourseRequest
	courseID, err := decodeCourse(data, &req, &req.CourseID)
	if err != nil {
		return nil, err
	}
	return protocol.ResultResponse{Success: c.hub.sessions.Unsubscribe(c.session.ID, courseID)}, nil
}

func decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return invalid("missing data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return invalid("invalid data: %v", err)
	}
	return nil
}

// decodeCourse 解码请求并解析其中的课程 ID
func decodeCourse(data json.RawMessage, dst any, courseID *string) (uuid.UUID, error) {
	if err := decode(data, dst); err != nil {
		return uuid.Nil, err
	}
	return parseID("courseId", *courseID)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid("invalid %s %q", field, raw)
	}
	return id, nil
}

// marshalMessage 将消息序列化为 JSON
func marshalMessage(msgType, requestID string, code int, payload any) []byte {
	msg := protocol.Message{Type: msgType, Code: code, RequestID: requestID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			msg.Data = raw
		}
	}
	data, _ := json.Marshal(msg)
	return data
}

func errorMessage(requestID string, em e.ErrorMessage, err error) []byte {
	resp := protocol.ErrorResponse{Message: em.Message}
	if err != nil {
		resp.Detail = err.Error()
	}
	return marshalMessage(protocol.ErrorMessage, requestID, em.Code, resp)
}
