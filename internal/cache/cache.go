// Package cache stores encoded animation documents in SQLite, keyed by a
// hash of the source model path.
package cache

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get for a path that was never stored.
var ErrNotFound = errors.New("model not in cache")

// Model is one cached document.
type Model struct {
	ID   uint32 `gorm:"primaryKey;autoIncrement:false"`
	Path string
	Data []byte
}

// TableName pins the table name.
func (Model) TableName() string { return "models" }

// Key hashes a model path to its row id: the low 32 bits of xxhash64.
func Key(path string) uint32 {
	return uint32(xxhash.Sum64String(path))
}

// Store is a SQLite backed cache.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens or creates the cache database at path. An empty path opens a
// private in-memory database.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create cache directory")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open cache %s", dsn)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "cache handle")
	}
	// One connection: an in-memory database exists per connection and
	// SQLite allows a single writer anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Model{}); err != nil {
		return nil, errors.Wrap(err, "migrate cache")
	}

	log.Debug("cache opened", zap.String("path", dsn))
	return &Store{db: db, log: log}, nil
}

// Put stores data for path, replacing any previous entry.
func (s *Store) Put(path string, data []byte) error {
	return errors.Wrapf(upsert(s.db, path, data), "put %s", path)
}

// SaveAll stores every entry in one transaction. Either all entries are
// written or none are.
func (s *Store) SaveAll(entries map[string][]byte) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for path, data := range entries {
			if err := upsert(tx, path, data); err != nil {
				return errors.Wrapf(err, "put %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "save all")
	}
	s.log.Info("cache saved", zap.Int("models", len(entries)))
	return nil
}

func upsert(db *gorm.DB, path string, data []byte) error {
	m := Model{ID: Key(path), Path: path, Data: data}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// Get loads the document stored for path.
func (s *Store) Get(path string) ([]byte, error) {
	var m Model
	err := s.db.Where("id = ?", Key(path)).Limit(1).Find(&m).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", path)
	}
	if m.ID != Key(path) || m.Path != path {
		return nil, errors.Wrap(ErrNotFound, path)
	}
	return m.Data, nil
}

// GetAll loads the documents stored for paths. Paths that are not cached
// are left out of the result.
func (s *Store) GetAll(paths []string) (map[string][]byte, error) {
	keys := make([]uint32, len(paths))
	for i, p := range paths {
		keys[i] = Key(p)
	}

	var models []Model
	if err := s.db.Where("id IN ?", keys).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "get all")
	}

	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	out := make(map[string][]byte, len(models))
	for _, m := range models {
		if want[m.Path] {
			out[m.Path] = m.Data
		}
	}
	return out, nil
}

// Delete removes the entry for path if present.
func (s *Store) Delete(path string) error {
	return errors.Wrapf(s.db.Delete(&Model{}, Key(path)).Error, "delete %s", path)
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
