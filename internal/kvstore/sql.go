package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/jhumka-storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted collection row.
type Entry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:64"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "kv_entries" }

// SQLStore keeps collections in the kv_entries table.
type SQLStore struct {
	client *db.Client
	now    func() time.Time
}

func NewSQLStore(client *db.Client) (*SQLStore, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &SQLStore{client: client, now: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := s.client.DB().WithContext(ctx).
		Where("storage_key = ?", key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(entry.Payload), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{
		Key:       key,
		Payload:   string(value),
		UpdatedAt: s.now().UTC(),
	}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
