package ledger

import (
	"context"
	"fmt"
	"time"

	"upload-agent/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableName is the table holding the ledger.
const TableName = "uploaded_objects"

// Object is one uploaded object recorded in the ledger.
type Object struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Bucket      string    `gorm:"size:255;not null;uniqueIndex:idx_bucket_key,priority:1" json:"bucket"`
	Key         string    `gorm:"column:object_key;size:512;not null;uniqueIndex:idx_bucket_key,priority:2" json:"key"`
	ContentType string    `gorm:"size:255" json:"contentType"`
	Size        int64     `json:"size"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName implements gorm's tabler.
func (Object) TableName() string {
	return TableName
}

// Columns are the ledger columns expected in the live table.
var Columns = []string{"id", "bucket", "object_key", "content_type", "size", "private", "created_at"}

// Store reads and writes ledger entries.
type Store struct {
	db *gorm.DB
}

// NewStore creates a ledger store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the ledger table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Object{}); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// Verify checks that the live table carries every ledger column.
func (s *Store) Verify() error {
	missing, err := database.MissingColumns(s.db, TableName, Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("ledger table %s is missing columns %v", TableName, missing)
	}
	return nil
}

// Record stores an uploaded object. Recording the same bucket and key again updates it.
func (s *Store) Record(ctx context.Context, obj Object) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket"}, {Name: "object_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "size", "private"}),
	}).Create(&obj).Error
	if err != nil {
		return fmt.Errorf("record %s/%s: %w", obj.Bucket, obj.Key, err)
	}
	return nil
}

// Forget removes an object from the ledger. Forgetting an unknown object is not an error.
func (s *Store) Forget(ctx context.Context, bucket, key string) error {
	err := s.db.WithContext(ctx).
		Where("bucket = ? AND object_key = ?", bucket, key).
		Delete(&Object{}).Error
	if err != nil {
		return fmt.Errorf("forget %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ForgetBatch removes many objects of a bucket in one statement.
func (s *Store) ForgetBatch(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("bucket = ? AND object_key IN ?", bucket, keys).
		Delete(&Object{}).Error
	if err != nil {
		return fmt.Errorf("forget %d keys in %s: %w", len(keys), bucket, err)
	}
	return nil
}

// List returns a page of the objects recorded for a bucket, newest first.
func (s *Store) List(ctx context.Context, bucket string, limit, offset int) ([]Object, error) {
	if limit <= 0 {
		limit = 100
	}

	var objs []Object
	err := s.db.WithContext(ctx).
		Where("bucket = ?", bucket).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&objs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", bucket, err)
	}
	return objs, nil
}

// Keys returns every key recorded for a bucket.
func (s *Store) Keys(ctx context.Context, bucket string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&Object{}).
		Where("bucket = ?", bucket).
		Pluck("object_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", bucket, err)
	}
	return keys, nil
}
