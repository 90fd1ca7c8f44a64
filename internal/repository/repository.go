package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coursebook/internal/course"
	"coursebook/internal/storage"
)

type CourseRepository interface {
	GetAllCourses(ctx context.Context) ([]*course.Course, error)
	// GetCourse returns an error matching course.ErrCourseNotFound (and so
	// course.ErrNotFound) when the id is unknown.
	GetCourse(ctx context.Context, id uuid.UUID) (*course.Course, error)
	SaveCourse(ctx context.Context, c *course.Course) error
	// DeleteCourse reports false when there was nothing to delete.
	DeleteCourse(ctx context.Context, id uuid.UUID) (bool, error)
}

type courseRepository struct {
	store storage.Store
}

// New returns a CourseRepository backed by the given store. Swapping the
// store never touches the aggregate.
func New(store storage.Store) CourseRepository {
	return &courseRepository{store: store}
}

func (r *courseRepository) GetAllCourses(ctx context.Context) ([]*course.Course, error) {
	records, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]*course.Course, 0, len(records))
	for _, rec := range records {
		c, err := toCourse(rec)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *courseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	rec, err := r.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", course.ErrCourseNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toCourse(rec)
}

func (r *courseRepository) SaveCourse(ctx context.Context, c *course.Course) error {
	return r.store.Save(ctx, toRecord(c))
}

func (r *courseRepository) DeleteCourse(ctx context.Context, id uuid.UUID) (bool, error) {
	err := r.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
