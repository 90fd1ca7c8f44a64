package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursebook/internal/course"
	"coursebook/internal/repository"
)

// CourseService runs every use case as load, apply, save against a single
// course. Calls on the same course are serialized.
type CourseService struct {
	repo   repository.CourseRepository
	locks  *keyedMutex
	logger *zap.Logger
	newID  func() uuid.UUID
}

func New(repo repository.CourseRepository, logger *zap.Logger) *CourseService {
	return &CourseService{
		repo:   repo,
		locks:  newKeyedMutex(),
		logger: logger,
		newID:  uuid.New,
	}
}

func (s *CourseService) GetCourses(ctx context.Context) ([]*course.Course, error) {
	return s.repo.GetAllCourses(ctx)
}

func (s *CourseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*course.Course, error) {
	return s.repo.GetCourse(ctx, courseID)
}

func (s *CourseService) CreateCourse(ctx context.Context, name string) (uuid.UUID, error) {
	c, err := course.New(s.newID(), name)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.repo.SaveCourse(ctx, c); err != nil {
		return uuid.Nil, fmt.Errorf("save course: %w", err)
	}
	s.logger.Info("Created new course", zap.Stringer("courseID", c.ID()), zap.String("name", c.Name()))
	return c.ID(), nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) (bool, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	deleted, err := s.repo.DeleteCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	s.logger.Info("Delete course", zap.Stringer("courseID", courseID), zap.Bool("deleted", deleted))
	return deleted, nil
}

func (s *CourseService) CreateAssignment(ctx context.Context, courseID uuid.UUID, name string) (uuid.UUID, error) {
	var assignmentID uuid.UUID
	err := s.mutate(ctx, courseID, func(c *course.Course) error {
		id, err := c.CreateAssignment(name)
		if err != nil {
			return err
		}
		assignmentID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("Created assignment", zap.Stringer("courseID", courseID), zap.Stringer("assignmentID", assignmentID))
	return assignmentID, nil
}

func (s *CourseService) EnrollStudent(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (bool, error) {
	var enrolled bool
	err := s.mutate(ctx, courseID, func(c *course.Course) error {
		ok, err := c.EnrollStudent(studentID)
		enrolled = ok
		return err
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("Enroll student", zap.Stringer("courseID", courseID), zap.Int64("studentID", int64(studentID)), zap.Bool("enrolled", enrolled))
	return enrolled, nil
}

func (s *CourseService) DropoutStudent(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (bool, error) {
	var dropped bool
	err := s.mutate(ctx, courseID, func(c *course.Course) error {
		dropped = c.DropoutStudent(studentID)
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("Dropout student", zap.Stringer("courseID", courseID), zap.Int64("studentID", int64(studentID)), zap.Bool("dropped", dropped))
	return dropped, nil
}

func (s *CourseService) SubmitAssignment(ctx context.Context, courseID uuid.UUID, studentID course.StudentID, assignmentID uuid.UUID, grade int) (bool, error) {
	var accepted bool
	err := s.mutate(ctx, courseID, func(c *course.Course) error {
		accepted = c.SubmitAssignment(studentID, assignmentID, grade)
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("Submit assignment",
		zap.Stringer("courseID", courseID),
		zap.Int64("studentID", int64(studentID)),
		zap.Stringer("assignmentID", assignmentID),
		zap.Int("grade", grade),
		zap.Bool("accepted", accepted))
	return accepted, nil
}

func (s *CourseService) AssignmentGradeAverage(ctx context.Context, courseID, assignmentID uuid.UUID) (int, error) {
	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return c.AssignmentGradeAverage(assignmentID)
}

func (s *CourseService) StudentGradeAverage(ctx context.Context, courseID uuid.UUID, studentID course.StudentID) (int, error) {
	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return c.StudentGradeAverage(studentID)
}

func (s *CourseService) TopFiveStudents(ctx context.Context, courseID uuid.UUID) ([]course.StudentID, error) {
	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return c.TopFiveStudents(), nil
}

// mutate loads the course, applies fn and saves the result. The save happens
// even when fn made no change; it is skipped only when fn returns an error.
func (s *CourseService) mutate(ctx context.Context, courseID uuid.UUID, fn func(*course.Course) error) error {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := s.repo.SaveCourse(ctx, c); err != nil {
		return fmt.Errorf("save course %s: %w", courseID, err)
	}
	return nil
}
