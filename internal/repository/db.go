package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// sqliteParams are appended to file DSNs unless the caller already set them.
var sqliteParams = map[string]string{
	"_busy_timeout": "5000",
	"_foreign_keys": "on",
}

// NewDB opens the SQLite database and creates missing tables.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "task_tracker.db"
	}
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(withSQLiteParams(dsn)), &gorm.Config{
		Logger: newGormLogger(log.StandardLogger()),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(&model.User{}, &model.TaskType{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	log.WithField("dsn", dsn).Debug("database ready")

	return db, nil
}

func withSQLiteParams(dsn string) string {
	if isMemoryDSN(dsn) {
		return dsn
	}
	var extra []string
	for key, value := range sqliteParams {
		if !strings.Contains(dsn, key+"=") {
			extra = append(extra, key+"="+value)
		}
	}
	if len(extra) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	// map order is random; keep the DSN stable
	if len(extra) == 2 && extra[0] > extra[1] {
		extra[0], extra[1] = extra[1], extra[0]
	}
	return dsn + sep + strings.Join(extra, "&")
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates the parent directory of a file DSN.
func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
