package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"tenantnotes/cmd/internal/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// DSN is a file path (or ":memory:") for sqlite and a connection URL for postgres.
	DSN string
}

func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if opts.Driver == "" || opts.Driver == DriverSQLite {
		// One connection serializes every transaction, which is what keeps
		// the note quota check and insert atomic on sqlite.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&entity.Tenant{}, &entity.User{}, &entity.Note{}, &entity.Connection{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
