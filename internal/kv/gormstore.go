package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateSlot is one persisted state slice.
type StateSlot struct {
	Name      string `gorm:"primaryKey;type:varchar(64)"`
	Data      []byte `gorm:"type:blob;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

func (StateSlot) TableName() string { return "state_slots" }

// GormStore keeps slots in a local sqlite database.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the sqlite database at path and migrates
// the slot table. Use "file::memory:?cache=shared" for a throwaway store.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&StateSlot{}); err != nil {
		return nil, fmt.Errorf("migrate state slots: %w", err)
	}
	return &GormStore{db: db}, nil
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&StateSlot{}); err != nil {
		return nil, fmt.Errorf("migrate state slots: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", slot, err)
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&StateSlot{Name: slot, Data: raw}).Error
}

func (s *GormStore) Load(ctx context.Context, slot string, out any) (bool, error) {
	var row StateSlot
	err := s.db.WithContext(ctx).First(&row, "name = ?", slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(row.Data, out); err != nil {
		return false, fmt.Errorf("unmarshal slot %s: %w", slot, err)
	}
	return true, nil
}
