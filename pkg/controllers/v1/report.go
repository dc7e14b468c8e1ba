package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/report"
)

type BudgetReportResponse struct {
	Year    int                           `json:"year" example:"2024"`
	Budgets []controllers.BudgetUsage     `json:"budgets"`
	Months  []controllers.MonthlySpending `json:"months"`
}

type MonthlyReportResponse struct {
	Year int                           `json:"year" example:"2024"`
	Data []controllers.MonthlySpending `json:"data"`
}

type VendorReportResponse struct {
	Year int                          `json:"year" example:"2024"`
	Data []controllers.VendorSpending `json:"data"`
}

type DashboardResponse struct {
	Data controllers.Dashboard `json:"data"`
}

// RegisterReportRoutes registers the routes for reports with
// the RouterGroup that is passed.
func (h Controller) RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/budget", OptionsReport)
	r.GET("/budget", h.GetBudgetReport)
	r.OPTIONS("/monthly", OptionsReport)
	r.GET("/monthly", h.GetMonthlyReport)
	r.OPTIONS("/vendors", OptionsReport)
	r.GET("/vendors", h.GetVendorReport)
	r.OPTIONS("/dashboard", OptionsReport)
	r.GET("/dashboard", h.GetDashboard)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/budget [options]
// @Router			/v1/reports/monthly [options]
// @Router			/v1/reports/vendors [options]
// @Router			/v1/reports/dashboard [options]
func OptionsReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// reportQuery binds the year and format of a report.
func (h Controller) reportQuery(c *gin.Context, formats ...string) (year int, f string, ok bool) {
	var q YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperrors.InvalidQueryString(c)
		return 0, "", false
	}

	year, err := h.year(q)
	if err != nil {
		httperrors.Handler(c, err)
		return 0, "", false
	}

	f, err = format(q.Format, formats...)
	if err != nil {
		httperrors.Handler(c, err)
		return 0, "", false
	}

	return year, f, true
}

// @Summary		Budget report
// @Description	Returns the usage of every budget and the spending per month for a year
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	BudgetReportResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			year	query		int		false	"Fiscal year, defaults to the current year"
// @Param			format	query		string	false	"json, csv or xlsx, defaults to json"
// @Router			/v1/reports/budget [get]
func (h Controller) GetBudgetReport(c *gin.Context) {
	year, f, ok := h.reportQuery(c, formatJSON, formatCSV, formatXLSX)
	if !ok {
		return
	}

	usage, err := h.co.Reports.BudgetSummary(year)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	months, err := h.co.Reports.MonthlySpending(year)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	if f == formatJSON {
		c.JSON(http.StatusOK, BudgetReportResponse{Year: year, Budgets: usage, Months: months})
		return
	}

	download(c, fmt.Sprintf("budget_report_%d", year), f, report.Budgets(year, usage, months))
}

// @Summary		Monthly spending
// @Description	Returns the spending per month of a year
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	MonthlyReportResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			year	query		int	false	"Calendar year, defaults to the current year"
// @Router			/v1/reports/monthly [get]
func (h Controller) GetMonthlyReport(c *gin.Context) {
	year, _, ok := h.reportQuery(c, formatJSON)
	if !ok {
		return
	}

	months, err := h.co.Reports.MonthlySpending(year)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthlyReportResponse{Year: year, Data: months})
}

// @Summary		Vendor spending report
// @Description	Returns total, order count and average order of every vendor with purchases in a year
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	VendorReportResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			year	query		int		false	"Calendar year, defaults to the current year"
// @Param			format	query		string	false	"json, csv or xlsx, defaults to json"
// @Router			/v1/reports/vendors [get]
func (h Controller) GetVendorReport(c *gin.Context) {
	year, f, ok := h.reportQuery(c, formatJSON, formatCSV, formatXLSX)
	if !ok {
		return
	}

	spending, err := h.co.Reports.VendorSpending(year)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	if f == formatJSON {
		c.JSON(http.StatusOK, VendorReportResponse{Year: year, Data: spending})
		return
	}

	download(c, fmt.Sprintf("vendor_report_%d", year), f, report.VendorSpending(year, spending))
}

// @Summary		Dashboard
// @Description	Returns pending receipts, spending and orders of the current year and pending approvals
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	DashboardResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/reports/dashboard [get]
func (h Controller) GetDashboard(c *gin.Context) {
	dashboard, err := h.co.Reports.Dashboard()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{Data: dashboard})
}
