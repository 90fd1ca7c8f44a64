package storage

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
)

func sampleRecord(name string) CourseRecord {
	assignmentID := uuid.New()
	return CourseRecord{
		ID:          uuid.New(),
		Name:        name,
		Students:    []int64{100, 200},
		Assignments: map[uuid.UUID]string{assignmentID: "Essay"},
		Submissions: []SubmissionRecord{{StudentID: 100, AssignmentID: assignmentID, Grade: 88}},
	}
}

func firstAssignment(t *testing.T, r CourseRecord) uuid.UUID {
	t.Helper()
	for id := range r.Assignments {
		return id
	}
	t.Fatalf("record %s has no assignments", r.ID)
	return uuid.Nil
}

// runStoreSuite checks the contract every Store implementation must honour.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get all on empty store", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("GetAll: want empty non-nil slice got=%#v", got)
		}
	})

	t.Run("get after save", func(t *testing.T) {
		s := newStore(t)
		rec := sampleRecord("Algebra")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Name != "Algebra" || !slices.Equal(got.Students, rec.Students) {
			t.Fatalf("Get: want=%+v got=%+v", rec, got)
		}
		if !slices.Equal(got.Submissions, rec.Submissions) {
			t.Fatalf("submissions: want=%v got=%v", rec.Submissions, got.Submissions)
		}
	})

	t.Run("mutating saved value does not leak", func(t *testing.T) {
		s := newStore(t)
		rec := sampleRecord("Biology")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		assignmentID := firstAssignment(t, rec)
		rec.Students[0] = 999
		rec.Assignments[assignmentID] = "changed"
		rec.Assignments[uuid.New()] = "extra"
		rec.Submissions[0].Grade = 1

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !slices.Equal(got.Students, []int64{100, 200}) {
			t.Fatalf("students leaked: got=%v", got.Students)
		}
		if len(got.Assignments) != 1 || got.Assignments[assignmentID] != "Essay" {
			t.Fatalf("assignments leaked: got=%v", got.Assignments)
		}
		if got.Submissions[0].Grade != 88 {
			t.Fatalf("submission leaked: got=%d", got.Submissions[0].Grade)
		}
	})

	t.Run("mutating read value does not leak", func(t *testing.T) {
		s := newStore(t)
		rec := sampleRecord("Chemistry")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		first, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		first.Name = "changed"
		first.Students = append(first.Students[:0], 7)
		for id := range first.Assignments {
			delete(first.Assignments, id)
		}

		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		all[0].Submissions[0].Grade = 0

		second, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if second.Name != "Chemistry" || !slices.Equal(second.Students, []int64{100, 200}) {
			t.Fatalf("stored copy changed: got=%+v", second)
		}
		if len(second.Assignments) != 1 || second.Submissions[0].Grade != 88 {
			t.Fatalf("stored copy changed: got=%+v", second)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		s := newStore(t)
		rec := sampleRecord("Drama")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		rec.Students = append(rec.Students, 300)
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !slices.Equal(got.Students, []int64{100, 200, 300}) {
			t.Fatalf("students: want=[100 200 300] got=%v", got.Students)
		}
		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("GetAll: want=1 record got=%d", len(all))
		}
	})

	t.Run("get all is ordered by id", func(t *testing.T) {
		s := newStore(t)
		var ids []string
		for _, name := range []string{"a", "b", "c", "d"} {
			rec := sampleRecord(name)
			ids = append(ids, rec.ID.String())
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}
		slices.Sort(ids)
		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		var got []string
		for _, r := range all {
			got = append(got, r.ID.String())
		}
		if !slices.Equal(got, ids) {
			t.Fatalf("GetAll order: want=%v got=%v", ids, got)
		}
	})

	t.Run("missing ids", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get: want ErrNotFound got=%v", err)
		}
		if err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete: want ErrNotFound got=%v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		rec := sampleRecord("Economics")
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get after delete: want ErrNotFound got=%v", err)
		}
		if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second Delete: want ErrNotFound got=%v", err)
		}
	})
}
