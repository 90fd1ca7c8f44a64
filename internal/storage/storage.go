package storage

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: record not found")

// CourseRecord is the persisted shape of a course snapshot.
type CourseRecord struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Students    []int64              `json:"students"`
	Assignments map[uuid.UUID]string `json:"assignments"`
	Submissions []SubmissionRecord   `json:"submissions"`
}

type SubmissionRecord struct {
	StudentID    int64     `json:"studentId"`
	AssignmentID uuid.UUID `json:"assignmentId"`
	Grade        int       `json:"grade"`
}

// Store holds course snapshots keyed by id. Implementations must never let a
// caller alias stored state: Save keeps its own copy of the record and every
// read returns a fresh one.
type Store interface {
	Save(ctx context.Context, record CourseRecord) error
	Get(ctx context.Context, id uuid.UUID) (CourseRecord, error)
	GetAll(ctx context.Context) ([]CourseRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

func sortRecords(records []CourseRecord) {
	slices.SortFunc(records, func(a, b CourseRecord) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
