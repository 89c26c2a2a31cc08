package model

import "time"

// StorageEntry is one key of the local key-value storage.
type StorageEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	Version   uint      `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}
