package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lanort/pedidos/pkg/storage"
)

// KVEntry is one persisted client-state value.
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// KVStore implements storage.KeyValue on top of the kv_entries table.
type KVStore struct {
	client    *Client
	namespace string
}

// NewKVStore scopes every key under namespace.
func NewKVStore(client *Client, namespace string) *KVStore {
	return &KVStore{client: client, namespace: namespace}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var entry KVEntry
	err := s.client.DB().WithContext(ctx).
		Where("entry_key = ?", s.scoped(key)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: s.scoped(key), Value: value, UpdatedAt: time.Now().UTC()}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *KVStore) scoped(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}
