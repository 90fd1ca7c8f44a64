package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var coursesBucket = []byte("Courses")

// BoltStore keeps course snapshots in a single bbolt bucket keyed by id.
type BoltStore struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// OpenBoltStore opens (or creates) the database file at path.
func OpenBoltStore(path string, logger *zap.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(coursesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Bolt store ready", zap.String("path", path))
	return &BoltStore{db: db, logger: logger}, nil
}

func (s *BoltStore) Save(_ context.Context, record CourseRecord) error {
	raw, err := encodeRecord(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(coursesBucket).Put([]byte(record.ID.String()), raw)
	})
}

func (s *BoltStore) Get(_ context.Context, id uuid.UUID) (CourseRecord, error) {
	var record CourseRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(coursesBucket).Get([]byte(id.String()))
		if raw == nil {
			return fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		var err error
		record, err = decodeRecord(raw)
		return err
	})
	return record, err
}

func (s *BoltStore) GetAll(_ context.Context) ([]CourseRecord, error) {
	records := []CourseRecord{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(coursesBucket).ForEach(func(_, raw []byte) error {
			record, err := decodeRecord(raw)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

func (s *BoltStore) Delete(_ context.Context, id uuid.UUID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(coursesBucket)
		key := []byte(id.String())
		if b.Get(key) == nil {
			return fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		if err := b.Delete(key); err != nil {
			return err
		}
		s.logger.Info("Deleted course snapshot", zap.Stringer("courseID", id))
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
