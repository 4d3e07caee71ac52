package models

import "time"

// CachedResponse is a GORM-backed row for the optional on-disk HTTP
// response cache (spec §5/§6 ENABLE_CACHE), keyed by request URL with
// a configurable TTL. Grounded on duration/youtube_cache.go's
// file-cache shape, replumbed onto a GORM table. Only the response
// body is stored; headers are not.
type CachedResponse struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"not null;uniqueIndex" json:"url"`
	Body      []byte    `gorm:"type:longblob" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
