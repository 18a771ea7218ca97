package models

import (
	"time"
)

// CacheEntry represents a cached value stored in the database cache backend.
// It backs both the paginated read cache and the rate limiter when the
// database store is selected.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
