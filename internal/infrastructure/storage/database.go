// internal/infrastructure/storage/database.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRecord is one persisted collection in the client_store table
type ClientRecord struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     []byte    `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (ClientRecord) TableName() string {
	return "client_store"
}

// DatabaseStore persists session collections in a relational key-value table
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store and migrates its table
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if err := db.AutoMigrate(&ClientRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate client_store: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

// Load retrieves the value stored under key
func (s *DatabaseStore) Load(ctx context.Context, key string) ([]byte, error) {
	var record ClientRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return record.Value, nil
}

// Save upserts the value under key
func (s *DatabaseStore) Save(ctx context.Context, key string, value []byte) error {
	record := ClientRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Absence is not an error.
func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&ClientRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
