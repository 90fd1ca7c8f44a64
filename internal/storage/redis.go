package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"coursebook/internal/config"
)

const scanBatch = 100

// RedisStore keeps one key per course holding its serialized snapshot.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
	logger *zap.Logger
}

func OpenRedisStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, cfg.Prefix, logger), nil
}

func NewRedisStore(rdb *goredis.Client, prefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, logger: logger}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + "course:" + id.String()
}

func (s *RedisStore) Save(ctx context.Context, record CourseRecord) error {
	raw, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(record.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save course %s: %w", record.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (CourseRecord, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return CourseRecord{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return CourseRecord{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return decodeRecord(raw)
}

func (s *RedisStore) GetAll(ctx context.Context) ([]CourseRecord, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, s.prefix+"course:*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan courses: %w", err)
	}
	if len(keys) == 0 {
		return []CourseRecord{}, nil
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	records := make([]CourseRecord, 0, len(values))
	for _, v := range values {
		// deleted between SCAN and MGET
		raw, ok := v.(string)
		if !ok {
			continue
		}
		record, err := decodeRecord([]byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sortRecords(records)
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	s.logger.Info("Deleted course snapshot", zap.Stringer("courseID", id))
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
