package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursebook/internal/config"
)

type courseRow struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Name      string         `gorm:"not null"`
	Snapshot  datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (courseRow) TableName() string { return "courses" }

// GormStore persists each course snapshot as a JSON column of the courses table.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func OpenGormStore(driver, dsn string, logger *zap.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("gorm store: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return NewGormStore(db, logger)
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&courseRow{}); err != nil {
		return nil, fmt.Errorf("migrate courses: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) Save(ctx context.Context, record CourseRecord) error {
	raw, err := encodeRecord(record)
	if err != nil {
		return err
	}
	row := courseRow{
		ID:       record.ID.String(),
		Name:     record.Name,
		Snapshot: datatypes.JSON(raw),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "snapshot", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save course %s: %w", record.ID, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (CourseRecord, error) {
	var row courseRow
	err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CourseRecord{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return CourseRecord{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return decodeRecord(row.Snapshot)
}

func (s *GormStore) GetAll(ctx context.Context) ([]CourseRecord, error) {
	var rows []courseRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	records := make([]CourseRecord, 0, len(rows))
	for _, row := range rows {
		record, err := decodeRecord(row.Snapshot)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	// database collation may not match byte order
	sortRecords(records)
	return records, nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&courseRow{})
	if res.Error != nil {
		return fmt.Errorf("delete course %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	s.logger.Info("Deleted course snapshot", zap.Stringer("courseID", id))
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
