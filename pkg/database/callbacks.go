package database

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// uniqueErrors maps unique constraint violations to errors.
// The sqlite message names the column, postgres names the index.
var uniqueErrors = []struct {
	sqlite   string
	postgres string
	err      error
}{
	{"UNIQUE constraint failed: vendors.name", "idx_vendors_name", models.ErrVendorNameNotUnique},
	{"UNIQUE constraint failed: budgets.code", "idx_budgets_code", models.ErrBudgetCodeNotUnique},
	{"UNIQUE constraint failed: purchases.order_number", "idx_purchases_order_number", models.ErrOrderNumberNotUnique},
}

var plural = regexp.MustCompile("ies$")

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "purchase_zero:after_query", queryCallback},
		{db.Callback().Query().After("*"), "purchase_zero:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "purchase_zero:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "purchase_zero:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "purchase_zero:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "purchase_zero:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "purchase_zero:after_delete_general", generalCallback},
	}

	for _, c := range callbacks {
		err := c.processor.Register(c.name, c.fn)
		if err != nil {
			return fmt.Errorf("registering callback %s: %w", c.name, err)
		}
	}

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = plural.ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%s %w", name, models.ErrResourceNotFound)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	for _, u := range uniqueErrors {
		if strings.Contains(msg, u.sqlite) || strings.Contains(msg, u.postgres) {
			db.Error = u.err
			return
		}
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var sqliteErr *go_sqlite.Error
	var pgErr *pgconn.PgError

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || errors.As(db.Error, &sqliteErr) || errors.As(db.Error, &pgErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = models.ErrGeneral
	}
}
