// Package httpcache implements the optional on-disk HTTP response
// cache (spec §5/§6 ENABLE_CACHE, 24h default TTL) satisfying
// internal/httpfetch.Cache. Grounded on database/migrate.go's
// dual-driver (sqlite/mysql) GORM setup, here scoped to a single
// CachedResponse table rather than the teacher's full schema.
package httpcache

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalogmatch/internal/config"
	"catalogmatch/models"
)

// Store is a GORM-backed implementation of httpfetch.Cache.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// Open opens (creating if needed) the on-disk cache database described
// by cfg.CacheDBDriver, mirroring database/migrate.go's driver switch.
func Open(cfg config.Settings, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.CacheDBDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		if dsn == "" {
			dsn = "catalogmatch_cache.sqlite"
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.AutoMigrate(&models.CachedResponse{}); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{
		db:  db,
		ttl: time.Duration(cfg.CacheTTLHours) * time.Hour,
	}, nil
}

// Get returns the cached body for url if present and not expired.
func (s *Store) Get(url string) ([]byte, bool) {
	var row models.CachedResponse
	if err := s.db.Where("url = ?", url).First(&row).Error; err != nil {
		return nil, false
	}
	if time.Since(row.CreatedAt) > s.ttl {
		s.db.Delete(&row)
		return nil, false
	}
	return row.Body, true
}

// Set stores (or replaces) the cached body for url.
func (s *Store) Set(url string, body []byte) {
	s.db.Where("url = ?", url).Delete(&models.CachedResponse{})
	s.db.Create(&models.CachedResponse{URL: url, Body: body, CreatedAt: time.Now()})
}
