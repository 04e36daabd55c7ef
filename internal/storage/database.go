package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database at dataSourceName and brings the
// schema up to date. File paths get their parent directory created.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	if !strings.HasPrefix(dataSourceName, "file:") && dataSourceName != ":memory:" {
		if dir := filepath.Dir(dataSourceName); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, eris.Wrapf(err, "create database directory %s", dir)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}

	err = db.AutoMigrate(
		&entropy.Pool{},
		&game.Character{},
		&game.Progression{},
		&game.Battle{},
		&game.Settlement{},
	)
	if err != nil {
		return nil, eris.Wrap(err, "migrate database")
	}
	logging.Debug("database ready", logging.Fields{"dsn": dataSourceName})
	return db, nil
}
