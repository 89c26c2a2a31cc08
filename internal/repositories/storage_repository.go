package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

// StorageRepository is the local key-value storage. Values are JSON documents.
type StorageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// Load decodes the value stored under key into dst. A missing or unreadable value
// reports false and leaves dst at its default.
func (r *StorageRepository) Load(ctx context.Context, key string, dst any) (bool, error) {
	var entry model.StorageEntry
	result := r.db.WithContext(ctx).Where("storage_key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		log.Printf("storage: ignoring unreadable value for %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Save writes value under key, bumping the entry version. Failures wrap ErrCouldNotSave.
func (r *StorageRepository) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperrors.ErrCouldNotSave, key, err)
	}

	entry := model.StorageEntry{
		Key:       key,
		Value:     string(data),
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      entry.Value,
			"updated_at": entry.UpdatedAt,
			"version":    gorm.Expr("version + 1"),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrCouldNotSave, key, err)
	}
	return nil
}

func (r *StorageRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("storage_key IN ?", keys).Delete(&model.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("%w: delete: %v", apperrors.ErrCouldNotSave, err)
	}
	return nil
}

// Version returns how many times key has been written, or 0 if it was never saved.
func (r *StorageRepository) Version(ctx context.Context, key string) (uint, error) {
	var entry model.StorageEntry
	result := r.db.WithContext(ctx).Select("version").Where("storage_key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return 0, result.Error
	}
	return entry.Version, nil
}
