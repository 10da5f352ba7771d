package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/helviojunior/abapscan/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection returns a database connection for a URI. The scheme
// selects the driver: sqlite:///path, postgres://..., mysql://....
// Unless shouldExist is set, the result schema is migrated in.
func Connection(uri string, shouldExist, debug bool) (*gorm.DB, error) {
	var err error
	var c *gorm.DB

	db, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	} else {
		config.Logger = logger.Default.LogMode(logger.Silent)
	}

	switch db.Scheme {
	case "sqlite", "sqlite3":
		// sqlite:///file.db is relative, sqlite:////abs/file.db is absolute
		path := strings.TrimPrefix(db.Host+db.Path, "/")
		c, err = gorm.Open(sqlite.Open(path), config)
	case "postgres", "postgresql":
		c, err = gorm.Open(postgres.Open(uri), config)
	case "mysql":
		dsn := fmt.Sprintf("%s@tcp(%s)%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.User.String(), db.Host, db.Path)
		dsn = strings.Replace(dsn, ":@tcp", "@tcp", 1)
		c, err = gorm.Open(mysql.Open(dsn), config)
	default:
		return nil, errors.New("invalid db uri scheme")
	}
	if err != nil {
		return nil, err
	}

	if !shouldExist {
		if err := c.AutoMigrate(&models.ScanResult{}, &models.Finding{}); err != nil {
			return nil, err
		}
	}

	return c, nil
}
