package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// recordRow is the persistence shape. Category fields are stored as one JSON
// payload: the scanner always consumes whole records, so per-field columns
// would only add migration churn.
type recordRow struct {
	ID         uint   `gorm:"primaryKey"`
	EntityName string `gorm:"uniqueIndex;size:255;not null"`
	Payload    []byte `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (recordRow) TableName() string { return "confidential_records" }

// Store is a Source backed by a relational database via GORM.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenStore connects to the configured database and runs schema migration.
func OpenStore(driver, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported record store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	return NewStore(db, logger)
}

// NewStore wraps an existing GORM handle and migrates the record schema.
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate record store: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With(zap.String("component", "record_store")),
	}, nil
}

// Put inserts or replaces the record for its entity name.
func (s *Store) Put(ctx context.Context, rec Record) error {
	if rec.EntityName == "" {
		return errors.New("record has no entity name")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", rec.EntityName, err)
	}

	var row recordRow
	err = s.db.WithContext(ctx).
		Where("entity_name = ?", rec.EntityName).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = recordRow{EntityName: rec.EntityName, Payload: payload}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("insert record %q: %w", rec.EntityName, err)
		}
	case err != nil:
		return fmt.Errorf("lookup record %q: %w", rec.EntityName, err)
	default:
		row.Payload = payload
		if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
			return fmt.Errorf("update record %q: %w", rec.EntityName, err)
		}
	}

	s.logger.Debug("record stored", zap.String("entity", rec.EntityName))
	return nil
}

// Get implements Source. A missing entity is not an error.
func (s *Store) Get(ctx context.Context, entity string) (Record, bool, error) {
	var row recordRow
	err := s.db.WithContext(ctx).
		Where("entity_name = ?", entity).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("lookup record %q: %w", entity, err)
	}

	rec, err := decodeRow(row)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// List implements Source.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).
		Model(&recordRow{}).
		Pluck("entity_name", &names).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// All implements Source.
func (s *Store) All(ctx context.Context) (map[string]Record, error) {
	var rows []recordRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	out := make(map[string]Record, len(rows))
	for _, row := range rows {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		out[row.EntityName] = rec
	}
	return out, nil
}

// Delete removes the record for the named entity. Deleting an unknown entity
// is a no-op.
func (s *Store) Delete(ctx context.Context, entity string) error {
	if err := s.db.WithContext(ctx).
		Where("entity_name = ?", entity).
		Delete(&recordRow{}).Error; err != nil {
		return fmt.Errorf("delete record %q: %w", entity, err)
	}
	return nil
}

func decodeRow(row recordRow) (Record, error) {
	var rec Record
	if err := json.Unmarshal(row.Payload, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record %q: %w", row.EntityName, err)
	}
	if rec.EntityName == "" {
		rec.EntityName = row.EntityName
	}
	return rec, nil
}
