package httpapi

import (
	ws "coursebook/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Courses ws.CourseService
	Hub     *ws.Hub
	Logger  *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS())

	var notifier Notifier
	if cfg.Hub != nil {
		notifier = cfg.Hub
	}
	h := NewCourseHandler(cfg.Courses, notifier, cfg.Logger)

	// Health
	r.GET("/healthcheck", h.HealthCheck)

	// Realtime
	if cfg.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			ws.ServeWs(cfg.Hub, c.Writer, c.Request)
		})
	}

	courses := r.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.POST("", h.CreateCourse)
		courses.GET("/:id", h.GetCourse)
		courses.DELETE("/:id", h.DeleteCourse)

		courses.POST("/:id/assignments", h.CreateAssignment)
		courses.GET("/:id/assignments/:assignmentId/average", h.AssignmentAverage)

		courses.PUT("/:id/students/:studentId", h.EnrollStudent)
		courses.DELETE("/:id/students/:studentId", h.DropoutStudent)
		courses.GET("/:id/students/:studentId/average", h.StudentAverage)

		courses.POST("/:id/submissions", h.SubmitAssignment)
		courses.GET("/:id/top-students", h.TopStudents)
	}

	return r
}
