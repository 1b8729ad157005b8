package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by DATABASE_URL. A postgres:// URL
// selects the postgres driver; anything else is treated as a sqlite path
// (the deployment default).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}

	path := strings.TrimPrefix(cfg.DatabaseURL, "file:")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	db.Exec("PRAGMA journal_mode = WAL")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Word{},
		&model.UsageRecord{},
		&model.Conversation{},
		&model.Message{},
		&model.DictEntry{},
	)
	if err != nil {
		return err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)")

	return nil
}
