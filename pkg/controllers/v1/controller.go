// Package v1 serves the v1 HTTP API on top of the domain controllers.
package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/models"
)

// Controller holds the domain controllers the handlers delegate to.
type Controller struct {
	co      *controllers.Controllers
	version string
}

// New returns a Controller for the domain controllers. The version
// is included in exports.
func New(co *controllers.Controllers, version string) Controller {
	return Controller{co: co, version: version}
}

// Register registers all v1 routes with the RouterGroup that is passed.
func (h Controller) Register(r *gin.RouterGroup) {
	r.GET("", h.GetRoot)
	r.OPTIONS("", OptionsRoot)

	h.RegisterVendorRoutes(r.Group("/vendors"))
	h.RegisterBudgetRoutes(r.Group("/budgets"))
	h.RegisterPurchaseRoutes(r.Group("/purchases"))
	h.RegisterReportRoutes(r.Group("/reports"))
	h.RegisterDatabaseRoutes(r.Group("/database"))
	h.RegisterExportRoutes(r.Group("/export"))
}

var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types")
	errUnknownFormat   = errors.New("the format must be one of json, csv, xlsx")
	errPathRequired    = errors.New("the path of the backup must be set")
)

// Formats of report and export downloads
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// YearQuery selects the calendar year of a report.
type YearQuery struct {
	Year   int    `form:"year" example:"2024"`  // Calendar year. Defaults to the current year.
	Format string `form:"format" example:"csv"` // One of json, csv, xlsx. Defaults to json.
}

// year returns the queried year, defaulting to the current one.
func (h Controller) year(q YearQuery) (int, error) {
	if q.Year == 0 {
		return h.co.Now().Year(), nil
	}

	if q.Year < 1000 || q.Year > 9999 {
		return 0, fmt.Errorf("%w, got %d", models.ErrInvalidYear, q.Year)
	}

	return q.Year, nil
}

func format(f string, allowed ...string) (string, error) {
	if f == "" {
		return allowed[0], nil
	}

	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w, got '%s'", errUnknownFormat, f)
}

// paramID parses the id path parameter and writes the error if it is invalid.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := httputil.ParamID(c)
	if err != nil {
		httperrors.InvalidUUID(c)
		return uuid.Nil, false
	}
	return id, true
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Vendors   string `json:"vendors" example:"https://example.com/api/v1/vendors"`
	Budgets   string `json:"budgets" example:"https://example.com/api/v1/budgets"`
	Purchases string `json:"purchases" example:"https://example.com/api/v1/purchases"`
	Reports   string `json:"reports" example:"https://example.com/api/v1/reports"`
	Database  string `json:"database" example:"https://example.com/api/v1/database"`
	Export    string `json:"export" example:"https://example.com/api/v1/export"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	RootResponse
// @Router			/v1 [get]
func (h Controller) GetRoot(c *gin.Context) {
	url := httputil.BaseURL(c) + "/v1"

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Vendors:   url + "/vendors",
			Budgets:   url + "/budgets",
			Purchases: url + "/purchases",
			Reports:   url + "/reports",
			Database:  url + "/database",
			Export:    url + "/export",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}
