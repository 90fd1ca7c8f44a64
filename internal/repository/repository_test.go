package repository

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"coursebook/internal/course"
	"coursebook/internal/storage"
)

func newTestRepository(t *testing.T) CourseRepository {
	t.Helper()
	return New(storage.NewMemoryStore(zaptest.NewLogger(t)))
}

func populatedCourse(t *testing.T) (*course.Course, uuid.UUID) {
	t.Helper()
	c, err := course.New(uuid.New(), "History")
	if err != nil {
		t.Fatalf("course.New: %v", err)
	}
	for _, s := range []course.StudentID{100, 200} {
		if _, err := c.EnrollStudent(s); err != nil {
			t.Fatalf("EnrollStudent: %v", err)
		}
	}
	assignmentID, err := c.CreateAssignment("Essay")
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if !c.SubmitAssignment(100, assignmentID, 77) {
		t.Fatalf("SubmitAssignment rejected")
	}
	return c, assignmentID
}

func TestSaveAndGetCourseRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	c, assignmentID := populatedCourse(t)

	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}
	got, err := repo.GetCourse(ctx, c.ID())
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if got.Name() != "History" {
		t.Fatalf("name: want=%q got=%q", "History", got.Name())
	}
	if !slices.Equal(got.Students(), []course.StudentID{100, 200}) {
		t.Fatalf("students: got=%v", got.Students())
	}
	if name, ok := got.Assignment(assignmentID); !ok || name != "Essay" {
		t.Fatalf("assignment: got=%q (ok=%v)", name, ok)
	}
	if !slices.Equal(got.Submissions(), c.Submissions()) {
		t.Fatalf("submissions: want=%v got=%v", c.Submissions(), got.Submissions())
	}
}

func TestMutatingCourseAfterSaveDoesNotChangeStoredCopy(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	c, assignmentID := populatedCourse(t)
	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	c.DropoutStudent(200)
	if _, err := c.EnrollStudent(300); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	c.SubmitAssignment(300, assignmentID, 10)

	got, err := repo.GetCourse(ctx, c.ID())
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if !slices.Equal(got.Students(), []course.StudentID{100, 200}) {
		t.Fatalf("stored students changed: got=%v", got.Students())
	}
	if len(got.Submissions()) != 1 {
		t.Fatalf("stored submissions changed: got=%v", got.Submissions())
	}
}

func TestMutatingLoadedCourseDoesNotChangeStoredCopy(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	c, _ := populatedCourse(t)
	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	loaded, err := repo.GetCourse(ctx, c.ID())
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	loaded.DropoutStudent(100)
	if _, err := loaded.CreateAssignment("Quiz"); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	again, err := repo.GetCourse(ctx, c.ID())
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if !again.IsEnrolled(100) {
		t.Fatalf("stored copy lost student 100")
	}
	if got := len(again.Assignments()); got != 1 {
		t.Fatalf("stored assignments: want=1 got=%d", got)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetCourse(context.Background(), uuid.New())
	if !errors.Is(err, course.ErrNotFound) {
		t.Fatalf("GetCourse: want course.ErrNotFound got=%v", err)
	}
}

func TestGetAllCourses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	for _, name := range []string{"One", "Two", "Three"} {
		c, err := course.New(uuid.New(), name)
		if err != nil {
			t.Fatalf("course.New: %v", err)
		}
		if err := repo.SaveCourse(ctx, c); err != nil {
			t.Fatalf("SaveCourse: %v", err)
		}
	}

	all, err := repo.GetAllCourses(ctx)
	if err != nil {
		t.Fatalf("GetAllCourses: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAllCourses: want=3 got=%d", len(all))
	}
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	c, _ := populatedCourse(t)
	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	ok, err := repo.DeleteCourse(ctx, c.ID())
	if err != nil || !ok {
		t.Fatalf("DeleteCourse: want true got=%v err=%v", ok, err)
	}
	ok, err = repo.DeleteCourse(ctx, c.ID())
	if err != nil || ok {
		t.Fatalf("DeleteCourse twice: want false got=%v err=%v", ok, err)
	}
	ok, err = repo.DeleteCourse(ctx, uuid.New())
	if err != nil || ok {
		t.Fatalf("DeleteCourse unknown: want false got=%v err=%v", ok, err)
	}
}

type failingStore struct {
	storage.Store
	err error
}

func (s failingStore) Delete(context.Context, uuid.UUID) error { return s.err }

func TestDeleteCoursePropagatesBackendFailure(t *testing.T) {
	boom := errors.New("connection reset")
	repo := New(failingStore{err: boom})

	ok, err := repo.DeleteCourse(context.Background(), uuid.New())
	if !errors.Is(err, boom) || ok {
		t.Fatalf("DeleteCourse: want backend error got ok=%v err=%v", ok, err)
	}
}
