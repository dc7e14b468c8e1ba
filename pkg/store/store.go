// Package store is the persistence gateway. It loads and saves whole
// aggregates: a purchase always comes with its line items and budget
// allocations, a budget with its yearly amounts.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/purchase-zero/backend/pkg/database"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Config configures the backing database.
type Config struct {
	Driver    string // database.DriverSQLite or database.DriverPostgres
	DSN       string // Path of the sqlite file or postgres DSN
	BackupDir string // Directory for backups of sqlite databases
}

// Store is the persistence gateway.
//
// A Store obtained from Transaction is bound to the transaction. All
// operations of a unit of work must use it.
//
// Queries and units of work share the connection. Backup, Restore and
// Close hold it exclusively.
type Store struct {
	mu  sync.RWMutex
	db  *gorm.DB
	cfg Config
	tx  bool
}

// Open connects to the database and returns a Store for it.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = database.DriverSQLite
	}

	db, err := database.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, cfg: cfg}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	defer s.exclusive()()
	return database.Close(s.db)
}

// shared locks the connection for a query and returns the unlock function.
// Stores bound to a transaction are already covered by the lock of the
// Store that started it.
func (s *Store) shared() func() {
	if s.tx {
		return func() {}
	}

	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) exclusive() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Driver returns the database driver in use.
func (s *Store) Driver() string {
	return s.cfg.Driver
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	defer s.shared()()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Transaction runs fn in a unit of work. If fn returns an error, all
// changes are rolled back. Nested calls use savepoints, so an inner
// failure only rolls back the inner changes.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	defer s.shared()()

	var fnErr error

	err := s.db.Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&Store{db: tx, cfg: s.cfg, tx: true})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}

	return storageError(err, "transaction failed")
}

// storageError logs unexpected errors and replaces them with models.ErrGeneral.
// Errors defined in models pass through unchanged.
func storageError(err error, msg string) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{
		models.ErrGeneral,
		models.ErrResourceNotFound,
		models.ErrVendorNameNotUnique,
		models.ErrBudgetCodeNotUnique,
		models.ErrOrderNumberNotUnique,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	log.Error().Err(err).Msg(msg)
	return fmt.Errorf("%w: %s", models.ErrGeneral, msg)
}
