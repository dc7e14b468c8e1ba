package v1_test

import (
	"net/http"
	"path/filepath"

	v1 "github.com/purchase-zero/backend/pkg/controllers/v1"
	"github.com/purchase-zero/backend/pkg/database"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/purchase-zero/backend/test"
)

// useFileStore replaces the in-memory store with a file-backed one.
func (suite *TestSuiteStandard) useFileStore() string {
	_ = suite.s.Close()

	path := test.DatabaseFile(suite.T())
	suite.open(store.Config{
		Driver:    database.DriverSQLite,
		DSN:       path,
		BackupDir: filepath.Join(filepath.Dir(path), "backups"),
	})

	return path
}

func (suite *TestSuiteStandard) TestDatabaseOptions() {
	r := suite.request(http.MethodOptions, "http://example.com/v1/database/backup", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, POST", r.Header().Get("allow"))

	r = suite.request(http.MethodOptions, "http://example.com/v1/database/stats", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestDatabaseBackupUnsupported() {
	r := suite.request(http.MethodPost, "http://example.com/v1/database/backup", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("backup and restore are only supported for file-backed sqlite databases", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestDatabaseBackupAndRestore() {
	suite.useFileStore()
	suite.createVendor("Before backup")

	r := suite.request(http.MethodPost, "http://example.com/v1/database/backup", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var backup v1.BackupResponse
	test.DecodeResponse(suite.T(), &r, &backup)
	suite.Assert().Equal("purchases_20240615_103000.db", filepath.Base(backup.Data.Path))

	suite.createVendor("After backup")

	r = suite.request(http.MethodPost, "http://example.com/v1/database/restore", map[string]any{"path": backup.Data.Path})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, "http://example.com/v1/vendors/names", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var names v1.VendorNamesResponse
	test.DecodeResponse(suite.T(), &r, &names)
	suite.Assert().Equal([]string{"Before backup"}, names.Data)
}

func (suite *TestSuiteStandard) TestDatabaseRestoreFails() {
	suite.useFileStore()

	r := suite.request(http.MethodPost, "http://example.com/v1/database/restore", map[string]any{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the path of the backup must be set", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = suite.request(http.MethodPost, "http://example.com/v1/database/restore", map[string]any{"path": filepath.Join(suite.T().TempDir(), "missing.db")})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "the backup file is not a readable database")

	r = suite.request(http.MethodPost, "http://example.com/v1/database/restore", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDatabaseStats() {
	vendor := suite.createVendor("Office Supplies Co.")
	budget := suite.createBudget("IT-EQUIP", map[string]string{"2024": "100", "2025": "100"})
	suite.createPurchase("PO-1", "2024-03-15", vendor.Data.ID.String(), 1, "10", budget.Data.ID.String())

	r := suite.request(http.MethodGet, "http://example.com/v1/database/stats", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var stats v1.StatsResponse
	test.DecodeResponse(suite.T(), &r, &stats)
	suite.Assert().Equal("sqlite", stats.Driver)
	suite.Assert().Equal(int64(1), stats.Data.Vendors)
	suite.Assert().Equal(int64(1), stats.Data.Budgets)
	suite.Assert().Equal(int64(1), stats.Data.Purchases)
	suite.Assert().Equal(int64(1), stats.Data.LineItems)
	suite.Assert().Equal(int64(1), stats.Data.BudgetAllocations)
	suite.Assert().Equal(int64(2), stats.Data.YearlyBudgetAmounts)
	suite.Assert().Equal(int64(1), stats.Data.PendingPurchases)
}
