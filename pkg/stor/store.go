// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// The stor package manages the storage of our entities.
package stor

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type (

	// generic store
	dbStore struct {
		db *gorm.DB
	}

	// entity stores
	restaurantStore dbStore
	menuItemStore   dbStore
	ownerStore      dbStore
	passcodeStore   dbStore
	dashboardStore  dbStore
	eventStore      dbStore

	// Store interface, giving access to specialized interfaces
	Store interface {
		Restaurant() RestaurantRepository
		MenuItem() MenuItemRepository
		Owner() OwnerRepository
		Passcode() PasscodeRepository
		Dashboard() DashboardRepository
		Event() EventRepository
		Close() error
	}

	// RestaurantRepository interface, defining restaurant operations
	RestaurantRepository interface {
		ListAll() (*[]Restaurant, error)
		List(pageNum, pageSize int) (*[]Restaurant, error)
		Search(term string, pageNum, pageSize int) (*[]Restaurant, error)
		FindByOwner(ownerID string) (*[]Restaurant, error)
		CreatedBetween(from, to time.Time) (*[]Restaurant, error)
		Count() (int64, error)
		Get(id uint) (*Restaurant, error)
		Create(r *Restaurant) error
		Update(r *Restaurant) error
		Delete(r *Restaurant) error
	}

	// MenuItemRepository interface, defining menu operations
	MenuItemRepository interface {
		List(restaurantID uint) (*[]MenuItem, error)
		Count() (int64, error)
		Get(restaurantID, id uint) (*MenuItem, error)
		Create(m *MenuItem) error
		Update(m *MenuItem) error
		Delete(m *MenuItem) error
		ReplaceAll(restaurantID uint, items []MenuItem) error
	}

	// OwnerRepository interface, defining owner operations
	OwnerRepository interface {
		Count() (int64, error)
		Get(uuid string) (*Owner, error)
		GetByPhone(phone string) (*Owner, error)
		FindOrCreate(phone string) (*Owner, error)
		Update(o *Owner) error
	}

	// PasscodeRepository interface, defining one-time passcode operations
	PasscodeRepository interface {
		GetPending(phone string) (*Passcode, error)
		Create(p *Passcode) error
		Update(p *Passcode) error
		PurgeExpired(before time.Time) (int64, error)
	}

	// EventRepository interface, defining login event operations
	EventRepository interface {
		List(ownerID string) (*[]Event, error)
		Count(ownerID string) (int64, error)
		Create(e *Event) error
	}

	// DashboardRepository interface, defining dashboard operations
	DashboardRepository interface {
		GetDashboard(topOwners int) (*DashboardData, error)
	}
)

// implementation of the different repository interfaces
func (s *dbStore) Restaurant() RestaurantRepository {
	return (*restaurantStore)(s)
}

func (s *dbStore) MenuItem() MenuItemRepository {
	return (*menuItemStore)(s)
}

func (s *dbStore) Owner() OwnerRepository {
	return (*ownerStore)(s)
}

func (s *dbStore) Passcode() PasscodeRepository {
	return (*passcodeStore)(s)
}

func (s *dbStore) Dashboard() DashboardRepository {
	return (*dashboardStore)(s)
}

func (s *dbStore) Event() EventRepository {
	return (*eventStore)(s)
}

// Close releases the database connections.
func (s *dbStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Init initializes the database
func Init(dsn string) (Store, error) {
	var err error

	dialect, cnx := dbFromURI(dsn)
	if dialect == "error" {
		return nil, fmt.Errorf("incorrect database source name: %q", dsn)
	}

	// add parameters specific to the dialect
	cnx = addParamsDialectSpecific(cnx, dialect)

	// database logger
	newLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level (Silent, Error, Warn, Info)
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(GormDialector(cnx), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		log.Errorf("Failed connecting to the database: %v", err)
		return nil, err
	}

	err = performDialectSpecific(db, dialect)
	if err != nil {
		log.Errorf("Failed performing dialect specific database init: %v", err)
		return nil, err
	}

	err = db.AutoMigrate(&Owner{}, &Restaurant{}, &MenuItem{}, &Passcode{}, &Event{})
	if err != nil {
		log.Errorf("Failed performing database automigrate: %v", err)
		return nil, err
	}

	stor := &dbStore{db: db}

	return stor, nil
}

// dbFromURI splits a dsn like sqlite3://gastro.db into a dialect and a connection string
func dbFromURI(uri string) (string, string) {
	parts := strings.Split(uri, "://")
	if len(parts) != 2 {
		return "error", ""
	}
	return parts[0], parts[1]
}

// addParamsDialectSpecific takes a connection string and adds parameters specific to the SQL dialect
func addParamsDialectSpecific(cnx, dialect string) string {
	sep := "?"
	if strings.Contains(cnx, "?") {
		sep = "&"
	}
	switch dialect {
	case "sqlite3":
		if !strings.Contains(cnx, "cache=") {
			cnx += sep + "cache=shared"
			sep = "&"
		}
		if !strings.Contains(cnx, "mode=") {
			cnx += sep + "mode=rwc"
		}
	case "mysql":
		cnx += sep + "charset=utf8mb4&parseTime=True&loc=Local"
	case "postgres":
		if !strings.Contains(cnx, "sslmode=") {
			cnx += sep + "sslmode=disable"
		}
	default:
		log.Warnf("Invalid dialect: %s", dialect)
	}
	return cnx
}

// performDialectSpecific
func performDialectSpecific(db *gorm.DB, dialect string) error {
	switch dialect {
	case "sqlite3":
		err := db.Exec("PRAGMA journal_mode = WAL").Error
		if err != nil {
			return err
		}
		err = db.Exec("PRAGMA foreign_keys = ON").Error
		if err != nil {
			return err
		}
	case "mysql":
		// nothing , so far
	case "postgres":
		// nothing , so far
	default:
		return fmt.Errorf("invalid dialect: %s", dialect)
	}
	return nil
}
