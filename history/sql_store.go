package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one stored document: the JSON-encoded History of an owner under a key.
type Entry struct {
	Owner     string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64;column:doc_key"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "history_entries" }

// SQLStore persists histories in SQLite through gorm.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file at path and migrates it.
func OpenSQLite(path string, zl *zap.Logger) (*SQLStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if zl == nil {
		zl = zap.NewNop()
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)

	gormLogger := logger.New(
		log.New(zapWriter{zl}, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection avoids "database is locked" under concurrent writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return NewSQLStore(db)
}

// NewSQLStore wraps an open gorm handle and migrates the entries table.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context, owner string) (History, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("owner = ? AND doc_key = ?", owner, StorageKey).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return decode([]byte(e.Value))
}

func (s *SQLStore) Save(ctx context.Context, owner string, h History) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	e := Entry{Owner: owner, Key: StorageKey, Value: string(b), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func decode(b []byte) (History, error) {
	if len(b) == 0 {
		return History{}, nil
	}
	var h History
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return h.normalize(), nil
}

// zapWriter routes gorm's log lines to zap.
type zapWriter struct {
	l *zap.Logger
}

func (w zapWriter) Write(p []byte) (int, error) {
	w.l.Warn(string(p), zap.String("component", "gorm"))
	return len(p), nil
}
