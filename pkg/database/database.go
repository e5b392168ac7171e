package database

import (
	"path"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbID uint

const (
	LIBRARY_DB DbID = iota
)

// InMemory is the location of a database that lives as long as its
// connection.
const InMemory = ":memory:"

type Configuration struct {
	fpath  string
	config *gorm.Config
	models []any
}

var dbs = [...]Configuration{
	{
		fpath: "library.db",
		config: &gorm.Config{
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		},
		models: []any{&Setting{}, &Transcription{}},
	},
}

func GetDatabase(id DbID) Configuration {
	return dbs[id]
}

// At places the database file in dir. InMemory keeps it in memory.
func (c Configuration) At(dir string) Configuration {
	if dir == InMemory {
		config := *c.config
		config.PrepareStmt = false
		c.fpath, c.config = InMemory, &config
		return c
	}
	c.fpath = path.Join(dir, path.Base(c.fpath))
	return c
}

func (c Configuration) Location() string { return c.fpath }

func Open(conf Configuration) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(conf.fpath), conf.config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", conf.fpath)
	}

	if conf.fpath == InMemory {
		// every new connection would get an empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	db = db.Exec("PRAGMA foreign_keys = ON")
	if err := db.AutoMigrate(conf.models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
