package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Budget is a budget with its amounts per fiscal year.
type Budget struct {
	models.Budget
	YearlyAmount map[string]decimal.Decimal `json:"yearlyAmount"` // Amounts per fiscal year
}

func newBudget(b models.Budget) Budget {
	return Budget{
		Budget:       b,
		YearlyAmount: b.YearlyAmount(),
	}
}

type BudgetResponse struct {
	Data Budget `json:"data"`
}

type BudgetListResponse struct {
	Data []Budget `json:"data"`
}

type BudgetOptionsResponse struct {
	Data []controllers.BudgetOption `json:"data"`
}

type BudgetUsageResponse struct {
	Year int                       `json:"year" example:"2024"`
	Data []controllers.BudgetUsage `json:"data"`
}

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (h Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", h.GetBudgets)
		r.POST("", h.CreateBudget)
		r.OPTIONS("/options", httputil.OptionsGet)
		r.GET("/options", h.GetBudgetOptions)
		r.OPTIONS("/usage", httputil.OptionsGet)
		r.GET("/usage", h.GetBudgetUsage)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", h.OptionsBudgetDetail)
		r.GET("/:id", h.GetBudget)
		r.PATCH("/:id", h.UpdateBudget)
		r.DELETE("/:id", h.DeleteBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [options]
func (h Controller) OptionsBudgetDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, err := h.co.Budgets.Get(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		List budgets
// @Description	Returns all budgets ordered by code
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/budgets [get]
func (h Controller) GetBudgets(c *gin.Context) {
	budgets, err := h.co.Budgets.All()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		data = append(data, newBudget(b))
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// @Summary		Budget options
// @Description	Returns all budgets with a "CODE - Name" label for pickers
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetOptionsResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/budgets/options [get]
func (h Controller) GetBudgetOptions(c *gin.Context) {
	options, err := h.co.Budgets.Options()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetOptionsResponse{Data: options})
}

// @Summary		Budget usage
// @Description	Returns amount, spending and remaining amount of every budget for a fiscal year
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetUsageResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			year	query		int	false	"Fiscal year, defaults to the current year"
// @Router			/v1/budgets/usage [get]
func (h Controller) GetBudgetUsage(c *gin.Context) {
	var q YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	year, err := h.year(q)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	usage, err := h.co.Budgets.UsageForYear(year)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetUsageResponse{Year: year, Data: usage})
}

// @Summary		Create budget
// @Description	Creates a new budget. The code must be unique.
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			budget	body		controllers.BudgetData	true	"Budget"
// @Router			/v1/budgets [post]
func (h Controller) CreateBudget(c *gin.Context) {
	var data controllers.BudgetData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	budget, err := h.co.Budgets.Add(uuid.Nil, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, BudgetResponse{Data: newBudget(budget)})
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [get]
func (h Controller) GetBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	budget, err := h.co.Budgets.Get(id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: newBudget(budget)})
}

// @Summary		Update budget
// @Description	Updates a budget. Yearly amounts are merged, years not in the request are kept.
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		string					true	"ID formatted as string"
// @Param			budget	body		controllers.BudgetData	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (h Controller) UpdateBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var data controllers.BudgetData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	budget, err := h.co.Budgets.Update(id, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: newBudget(budget)})
}

// @Summary		Delete budget
// @Description	Deletes a budget. Budgets with allocations cannot be deleted.
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [delete]
func (h Controller) DeleteBudget(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.co.Budgets.Delete(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
