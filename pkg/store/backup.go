package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/purchase-zero/backend/pkg/database"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// SafetyCopySuffix is appended to the database path for the copy of the
// database that is made before a restore.
const SafetyCopySuffix = ".temp_backup"

// backupTables must exist in a database to be restorable.
var backupTables = []any{&models.Vendor{}, &models.Budget{}, &models.Purchase{}, &models.LineItem{}, &models.PurchaseBudget{}}

// fileBacked returns the path of the database file, or an error if the
// store is not backed by a sqlite file.
func (s *Store) fileBacked() (string, error) {
	if s.cfg.Driver != database.DriverSQLite || s.cfg.DSN == "" || s.cfg.DSN == database.Memory {
		return "", models.ErrBackupUnsupported
	}

	return s.cfg.DSN, nil
}

// Backup writes a snapshot of the database to the backup directory and
// returns its path. The file name contains the time of the backup.
func (s *Store) Backup(now time.Time) (string, error) {
	if _, err := s.fileBacked(); err != nil {
		return "", err
	}

	defer s.exclusive()()

	dir := s.cfg.BackupDir
	if dir == "" {
		dir = "backups"
	}

	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("purchases_%s.db", now.Format("20060102_150405")))

	// VACUUM INTO refuses to overwrite existing files
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(dir, fmt.Sprintf("purchases_%s.db", now.Format("20060102_150405.000000000")))
	}

	err = s.db.Exec("VACUUM INTO ?", path).Error
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("backup failed")
		return "", fmt.Errorf("backup failed: %w", err)
	}

	log.Info().Str("path", path).Msg("database backup created")
	return path, nil
}

// Restore replaces the database with the backup at path.
//
// The backup is validated before the current database is touched. The
// current database is copied next to it with SafetyCopySuffix and put
// back if the restored database cannot be opened. Queries wait until
// the restore is finished.
func (s *Store) Restore(path string) error {
	if s.tx {
		return fmt.Errorf("restore failed: cannot restore inside a transaction")
	}

	current, err := s.fileBacked()
	if err != nil {
		return err
	}

	safety := current + SafetyCopySuffix
	for _, reserved := range []string{current, safety} {
		if samePath(path, reserved) {
			return fmt.Errorf("%w: %s is the database or its safety copy", models.ErrBackupInvalid, path)
		}
	}

	err = validateBackup(path)
	if err != nil {
		return err
	}

	defer s.exclusive()()

	err = database.Close(s.db)
	if err != nil {
		return fmt.Errorf("restore failed: the database could not be closed: %w", err)
	}

	err = replaceFile(current, safety)
	if err != nil {
		return s.reopen(fmt.Errorf("restore failed: creating safety copy: %w", err))
	}

	err = replaceFile(path, current)
	if err != nil {
		s.putBack(safety, current)
		return s.reopen(fmt.Errorf("restore failed: %w", err))
	}

	db, err := database.Connect(s.cfg.Driver, current)
	if err != nil {
		log.Error().Err(err).Str("backup", path).Msg("restored database could not be opened, putting back the previous one")
		s.putBack(safety, current)
		return s.reopen(fmt.Errorf("restore failed: %w", err))
	}

	s.db = db
	log.Info().Str("backup", path).Msg("database restored")
	return nil
}

func (s *Store) putBack(safety, current string) {
	if err := replaceFile(safety, current); err != nil {
		log.Error().Err(err).Str("safety copy", safety).Msg("could not put back the database")
	}
}

// reopen reconnects to the configured database after a failed restore
// and returns cause.
func (s *Store) reopen(cause error) error {
	db, err := database.Connect(s.cfg.Driver, s.cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("could not reconnect to the database")
		return cause
	}

	s.db = db
	return cause
}

// validateBackup checks that the file at path is a sqlite database
// that passes the integrity check and contains the tables.
func validateBackup(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrBackupInvalid, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", models.ErrBackupInvalid, path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gorm_logger.Discard,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrBackupInvalid, err)
	}
	defer func() { _ = database.Close(db) }()

	var result string
	err = db.Raw("PRAGMA integrity_check").Scan(&result).Error
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrBackupInvalid, err)
	}

	if result != "ok" {
		return fmt.Errorf("%w: integrity check reported '%s'", models.ErrBackupInvalid, result)
	}

	for _, table := range backupTables {
		if !db.Migrator().HasTable(table) {
			return fmt.Errorf("%w: table for %T is missing", models.ErrBackupInvalid, table)
		}
	}

	return nil
}

// samePath reports if a and b name the same file. Paths of files that
// do not exist are compared after cleaning.
func samePath(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// replaceFile copies src to a temporary file next to dst and renames it
// to dst, so dst is never left half written.
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(out.Name())

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return err
	}

	err = out.Sync()
	if err != nil {
		out.Close()
		return err
	}

	err = out.Close()
	if err != nil {
		return err
	}

	return os.Rename(out.Name(), dst)
}
