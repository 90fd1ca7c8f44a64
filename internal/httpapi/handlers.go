package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"coursebook/api/websocket"
	"coursebook/internal/course"
	e "coursebook/internal/errors"
	ws "coursebook/internal/websocket"
	"coursebook/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is told about every course that changed through the REST API.
type Notifier interface {
	NotifyCourseChanged(courseID uuid.UUID)
}

type nopNotifier struct{}

func (nopNotifier) NotifyCourseChanged(uuid.UUID) {}

type createCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

type createAssignmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type submitRequest struct {
	StudentID    int64  `json:"studentId"`
	AssignmentID string `json:"assignmentId" binding:"required,uuid"`
	Grade        *int   `json:"grade" binding:"required"`
}

type CourseHandler struct {
	courses  ws.CourseService
	notifier Notifier
	logger   *zap.Logger
}

func NewCourseHandler(courses ws.CourseService, notifier Notifier, logger *zap.Logger) *CourseHandler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CourseHandler{
		courses:  courses,
		notifier: notifier,
		logger:   logger.With(zap.String("handler", "CourseHandler")),
	}
}

func (h *CourseHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.GetCourses(c.Request.Context())
	if err != nil {
		h.fail(c, "ListCourses", err)
		return
	}
	respondOK(c, models.FromCourses(courses))
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, e.ErrInvalidData, err)
		return
	}
	id, err := h.courses.CreateCourse(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "CreateCourse", err)
		return
	}
	c.JSON(http.StatusCreated, protocol.IDResponse{ID: id.String()})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	found, err := h.courses.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, "GetCourse", err)
		return
	}
	respondOK(c, models.FromCourse(found))
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deleted, err := h.courses.DeleteCourse(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, "DeleteCourse", err)
		return
	}
	if deleted {
		h.notifier.NotifyCourseChanged(courseID)
	}
	respondOK(c, protocol.ResultResponse{Success: deleted})
}

func (h *CourseHandler) CreateAssignment(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, e.ErrInvalidData, err)
		return
	}
	id, err := h.courses.CreateAssignment(c.Request.Context(), courseID, req.Name)
	if err != nil {
		h.fail(c, "CreateAssignment", err)
		return
	}
	h.notifier.NotifyCourseChanged(courseID)
	c.JSON(http.StatusCreated, protocol.IDResponse{ID: id.String()})
}

func (h *CourseHandler) EnrollStudent(c *gin.Context) {
	courseID, studentID, ok := studentParams(c)
	if !ok {
		return
	}
	enrolled, err := h.courses.EnrollStudent(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.fail(c, "EnrollStudent", err)
		return
	}
	if enrolled {
		h.notifier.NotifyCourseChanged(courseID)
	}
	respondOK(c, protocol.ResultResponse{Success: enrolled})
}

func (h *CourseHandler) DropoutStudent(c *gin.Context) {
	courseID, studentID, ok := studentParams(c)
	if !ok {
		return
	}
	dropped, err := h.courses.DropoutStudent(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.fail(c, "DropoutStudent", err)
		return
	}
	if dropped {
		h.notifier.NotifyCourseChanged(courseID)
	}
	respondOK(c, protocol.ResultResponse{Success: dropped})
}

func (h *CourseHandler) SubmitAssignment(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, e.ErrInvalidData, err)
		return
	}
	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		respondError(c, e.ErrInvalidData, err)
		return
	}
	submitted, err := h.courses.SubmitAssignment(c.Request.Context(), courseID, course.StudentID(req.StudentID), assignmentID, *req.Grade)
	if err != nil {
		h.fail(c, "SubmitAssignment", err)
		return
	}
	if submitted {
		h.notifier.NotifyCourseChanged(courseID)
	}
	respondOK(c, protocol.ResultResponse{Success: submitted})
}

func (h *CourseHandler) AssignmentAverage(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := uuidParam(c, "assignmentId")
	if !ok {
		return
	}
	avg, err := h.courses.AssignmentGradeAverage(c.Request.Context(), courseID, assignmentID)
	if err != nil {
		h.fail(c, "AssignmentAverage", err)
		return
	}
	respondOK(c, protocol.AverageResponse{Average: avg})
}

func (h *CourseHandler) StudentAverage(c *gin.Context) {
	courseID, studentID, ok := studentParams(c)
	if !ok {
		return
	}
	avg, err := h.courses.StudentGradeAverage(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.fail(c, "StudentAverage", err)
		return
	}
	respondOK(c, protocol.AverageResponse{Average: avg})
}

func (h *CourseHandler) TopStudents(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	top, err := h.courses.TopFiveStudents(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, "TopStudents", err)
		return
	}
	respondOK(c, protocol.TopStudentsResponse{Students: models.StudentIDs(top)})
}

// fail maps a service error onto the error envelope and logs server faults.
func (h *CourseHandler) fail(c *gin.Context, op string, err error) {
	em := e.FromError(err)
	if em.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.Error(err))
		respondError(c, em, nil)
		return
	}
	respondError(c, em, err)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, e.ErrInvalidData, fmt.Errorf("invalid %s %q", name, raw))
		return uuid.Nil, false
	}
	return id, true
}

func studentParams(c *gin.Context) (uuid.UUID, course.StudentID, bool) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, 0, false
	}
	raw := c.Param("studentId")
	studentID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, e.ErrInvalidData, fmt.Errorf("invalid studentId %q", raw))
		return uuid.Nil, 0, false
	}
	return courseID, course.StudentID(studentID), true
}
