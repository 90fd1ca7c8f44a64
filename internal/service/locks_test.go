package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	id := uuid.New()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(id)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 20 {
		t.Fatalf("counter: want=20 got=%d", counter)
	}
	if got := k.len(); got != 0 {
		t.Fatalf("entries after release: want=0 got=%d", got)
	}
}

func TestLocksDoNotGrowWithUnknownIDs(t *testing.T) {
	ctx := context.Background()
	svc := newStoreBackedService(t)

	for i := 0; i < 100; i++ {
		if _, err := svc.EnrollStudent(ctx, uuid.New(), 1); err == nil {
			t.Fatalf("EnrollStudent on unknown course: want error")
		}
	}

	courseID, err := svc.CreateCourse(ctx, "Course 1")
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if _, err := svc.EnrollStudent(ctx, courseID, 1); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	if ok, err := svc.DeleteCourse(ctx, courseID); err != nil || !ok {
		t.Fatalf("DeleteCourse: want true got=%v err=%v", ok, err)
	}

	if got := svc.locks.len(); got != 0 {
		t.Fatalf("locks held: want=0 got=%d", got)
	}
}
