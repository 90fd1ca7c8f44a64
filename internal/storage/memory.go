package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore keeps serialized snapshots in a map. Records are encoded on
// Save and decoded on every read, so no two callers ever share state.
type MemoryStore struct {
	courses map[uuid.UUID][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		courses: make(map[uuid.UUID][]byte),
		logger:  logger,
	}
}

func (s *MemoryStore) Save(_ context.Context, record CourseRecord) error {
	raw, err := encodeRecord(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses[record.ID] = raw
	s.logger.Debug("Saved course snapshot", zap.Stringer("courseID", record.ID), zap.Int("bytes", len(raw)))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (CourseRecord, error) {
	s.mu.RLock()
	raw, ok := s.courses[id]
	s.mu.RUnlock()

	if !ok {
		return CourseRecord{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return decodeRecord(raw)
}

func (s *MemoryStore) GetAll(_ context.Context) ([]CourseRecord, error) {
	s.mu.RLock()
	raws := make([][]byte, 0, len(s.courses))
	for _, raw := range s.courses {
		raws = append(raws, raw)
	}
	s.mu.RUnlock()

	records := make([]CourseRecord, 0, len(raws))
	for _, raw := range raws {
		record, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sortRecords(records)
	return records, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	delete(s.courses, id)
	s.logger.Info("Deleted course snapshot", zap.Stringer("courseID", id))
	return nil
}

func (s *MemoryStore) Close() error { return nil }
