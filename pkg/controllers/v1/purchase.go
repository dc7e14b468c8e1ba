package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/report"
	"github.com/shopspring/decimal"
)

// Purchase is a purchase with its computed values.
type Purchase struct {
	models.Purchase
	Total     decimal.Decimal        `json:"total" example:"91.98"`             // Sum of all line item totals
	Receiving models.ReceivingStatus `json:"receivingStatus" example:"Partial"` // Derived from the received flags of the line items
}

func newPurchase(p models.Purchase) Purchase {
	return Purchase{
		Purchase:  p,
		Total:     p.Total(),
		Receiving: p.ReceivingStatus(),
	}
}

func newPurchases(purchases []models.Purchase) []Purchase {
	data := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		data = append(data, newPurchase(p))
	}
	return data
}

type PurchaseResponse struct {
	Data Purchase `json:"data"`
}

type PurchaseListResponse struct {
	Data []Purchase `json:"data"`
}

type ImportResponse struct {
	Data controllers.ImportSummary `json:"data"`
}

// ApprovalEditable is the body of approvals and rejections.
type ApprovalEditable struct {
	Approver string `json:"approver" example:"Jane Doe"` // Defaults to the configured approver
	Notes    string `json:"notes" example:"Over budget"` // Only used for rejections
}

// ReceiveEditable selects the line items to mark.
type ReceiveEditable struct {
	Positions []int `json:"positions" example:"0,2"` // Zero-based positions of the line items
	Received  *bool `json:"received" example:"true"` // Defaults to true
}

// RegisterPurchaseRoutes registers the routes for purchases with
// the RouterGroup that is passed.
func (h Controller) RegisterPurchaseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPurchaseList)
		r.GET("", h.GetPurchases)
		r.POST("", h.CreatePurchase)
		r.OPTIONS("/import", OptionsPurchaseImport)
		r.POST("/import", h.ImportPurchases)
		r.OPTIONS("/export", httputil.OptionsGet)
		r.GET("/export", h.ExportPurchases)
	}

	// Purchase with ID
	{
		r.OPTIONS("/:id", h.OptionsPurchaseDetail)
		r.GET("/:id", h.GetPurchase)
		r.PATCH("/:id", h.UpdatePurchase)
		r.DELETE("/:id", h.DeletePurchase)
	}

	// Actions on a purchase
	{
		r.OPTIONS("/:id/approve", h.OptionsPurchaseAction)
		r.POST("/:id/approve", h.ApprovePurchase)
		r.OPTIONS("/:id/reject", h.OptionsPurchaseAction)
		r.POST("/:id/reject", h.RejectPurchase)
		r.OPTIONS("/:id/receive", h.OptionsPurchaseAction)
		r.POST("/:id/receive", h.ReceivePurchase)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Purchases
// @Success		204
// @Router			/v1/purchases [options]
func OptionsPurchaseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Purchases
// @Success		204
// @Router			/v1/purchases/import [options]
func OptionsPurchaseImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Purchases
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/purchases/{id} [options]
func (h Controller) OptionsPurchaseDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, err := h.co.Purchases.Get(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Purchases
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/purchases/{id}/approve [options]
// @Router			/v1/purchases/{id}/reject [options]
// @Router			/v1/purchases/{id}/receive [options]
func (h Controller) OptionsPurchaseAction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, err := h.co.Purchases.Get(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		List purchases
// @Description	Returns the purchases matching the search, newest first unless a sort field is set
// @Tags			Purchases
// @Produce		json
// @Success		200			{object}	PurchaseListResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			search		query		string	false	"Search text, '*' for glob patterns on order number and vendor"
// @Param			field		query		string	false	"all, orderNumber, vendor, date, receivingStatus, status"
// @Param			status		query		string	false	"Approval status"
// @Param			receiving	query		string	false	"Receiving status"
// @Param			year		query		int		false	"Calendar year"
// @Param			sort		query		string	false	"orderNumber, vendor, date, total, status"
// @Param			desc		query		bool	false	"Sort descending"
// @Router			/v1/purchases [get]
func (h Controller) GetPurchases(c *gin.Context) {
	var q controllers.PurchaseSearch
	if err := c.ShouldBindQuery(&q); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	purchases, err := h.co.Purchases.Search(q)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseListResponse{Data: newPurchases(purchases)})
}

// @Summary		Create purchase
// @Description	Creates a purchase with its line items and budget allocations
// @Tags			Purchases
// @Produce		json
// @Success		201			{object}	PurchaseResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		404			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			purchase	body		controllers.PurchaseData	true	"Purchase"
// @Router			/v1/purchases [post]
func (h Controller) CreatePurchase(c *gin.Context) {
	var data controllers.PurchaseData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	purchase, err := h.co.Purchases.Add(uuid.Nil, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, PurchaseResponse{Data: newPurchase(purchase)})
}

// @Summary		Get purchase
// @Description	Returns a specific purchase
// @Tags			Purchases
// @Produce		json
// @Success		200	{object}	PurchaseResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/purchases/{id} [get]
func (h Controller) GetPurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	purchase, err := h.co.Purchases.Get(id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{Data: newPurchase(purchase)})
}

// @Summary		Update purchase
// @Description	Updates a purchase. Line items and allocations are replaced.
// @Tags			Purchases
// @Produce		json
// @Success		200			{object}	PurchaseResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		404			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			id			path		string						true	"ID formatted as string"
// @Param			purchase	body		controllers.PurchaseData	true	"Purchase"
// @Router			/v1/purchases/{id} [patch]
func (h Controller) UpdatePurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var data controllers.PurchaseData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	purchase, err := h.co.Purchases.Update(id, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{Data: newPurchase(purchase)})
}

// @Summary		Delete purchase
// @Description	Deletes a purchase with its line items and allocations
// @Tags			Purchases
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/purchases/{id} [delete]
func (h Controller) DeletePurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.co.Purchases.Delete(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Approve purchase
// @Description	Approves a pending purchase
// @Tags			Purchases
// @Produce		json
// @Success		200			{object}	PurchaseResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		404			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			id			path		string				true	"ID formatted as string"
// @Param			approval	body		ApprovalEditable	false	"Approver"
// @Router			/v1/purchases/{id}/approve [post]
func (h Controller) ApprovePurchase(c *gin.Context) {
	h.decide(c, func(id uuid.UUID, a ApprovalEditable) (models.Purchase, error) {
		return h.co.Purchases.Approve(id, a.Approver)
	})
}

// @Summary		Reject purchase
// @Description	Rejects a pending purchase and stores the notes
// @Tags			Purchases
// @Produce		json
// @Success		200			{object}	PurchaseResponse
// @Failure		400			{object}	httperrors.HTTPError
// @Failure		404			{object}	httperrors.HTTPError
// @Failure		500			{object}	httperrors.HTTPError
// @Param			id			path		string				true	"ID formatted as string"
// @Param			approval	body		ApprovalEditable	false	"Approver and notes"
// @Router			/v1/purchases/{id}/reject [post]
func (h Controller) RejectPurchase(c *gin.Context) {
	h.decide(c, func(id uuid.UUID, a ApprovalEditable) (models.Purchase, error) {
		return h.co.Purchases.Reject(id, a.Approver, a.Notes)
	})
}

// decide runs an approval decision. The body is optional.
func (h Controller) decide(c *gin.Context, fn func(uuid.UUID, ApprovalEditable) (models.Purchase, error)) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var a ApprovalEditable
	if c.Request.ContentLength != 0 {
		if err := httputil.BindData(c, &a); err != nil {
			httperrors.Handler(c, err)
			return
		}
	}

	purchase, err := fn(id, a)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{Data: newPurchase(purchase)})
}

// @Summary		Receive line items
// @Description	Marks the line items at the positions as received or not received. Unknown positions are ignored.
// @Tags			Purchases
// @Produce		json
// @Success		200		{object}	PurchaseResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		string			true	"ID formatted as string"
// @Param			items	body		ReceiveEditable	true	"Line items"
// @Router			/v1/purchases/{id}/receive [post]
func (h Controller) ReceivePurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var data ReceiveEditable
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	received := true
	if data.Received != nil {
		received = *data.Received
	}

	purchase, err := h.co.Purchases.ReceiveItems(id, data.Positions, received)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{Data: newPurchase(purchase)})
}

// getUploadedFile returns the form file if it has the suffix.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(formFile.Filename), suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	return formFile.Open()
}

// @Summary		Import purchases
// @Description	Imports purchases from a CSV file. Rows that fail are counted, all other rows are imported.
// @Tags			Purchases
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	ImportResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			file	formData	file	true	"File to import"
// @Router			/v1/purchases/import [post]
func (h Controller) ImportPurchases(c *gin.Context) {
	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		httperrors.Handler(c, err)
		return
	}
	defer f.Close()

	summary, err := h.co.Purchases.ImportCSV(f)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ImportResponse{Data: summary})
}

// @Summary		Export purchases
// @Description	Returns the purchases matching the search as CSV or XLSX file
// @Tags			Purchases
// @Produce		text/csv
// @Success		200
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			format	query		string	false	"csv or xlsx, defaults to csv"
// @Param			search	query		string	false	"Search text"
// @Param			status	query		string	false	"Approval status"
// @Param			year	query		int		false	"Calendar year"
// @Router			/v1/purchases/export [get]
func (h Controller) ExportPurchases(c *gin.Context) {
	f, err := format(c.Query("format"), formatCSV, formatXLSX)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var q controllers.PurchaseSearch
	if err := c.ShouldBindQuery(&q); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	purchases, err := h.co.Purchases.Search(q)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	download(c, "purchases", f, report.Purchases(purchases))
}
