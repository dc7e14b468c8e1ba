package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/purchase-zero/backend/pkg/report"
)

type VendorResponse struct {
	Data models.Vendor `json:"data"`
}

type VendorListResponse struct {
	Data []models.Vendor `json:"data"`
}

type VendorNamesResponse struct {
	Data []string `json:"data"`
}

// RegisterVendorRoutes registers the routes for vendors with
// the RouterGroup that is passed.
func (h Controller) RegisterVendorRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsVendorList)
		r.GET("", h.GetVendors)
		r.POST("", h.CreateVendor)
		r.OPTIONS("/names", httputil.OptionsGet)
		r.GET("/names", h.GetVendorNames)
		r.OPTIONS("/export", httputil.OptionsGet)
		r.GET("/export", h.ExportVendors)
	}

	// Vendor with ID
	{
		r.OPTIONS("/:id", h.OptionsVendorDetail)
		r.GET("/:id", h.GetVendor)
		r.PATCH("/:id", h.UpdateVendor)
		r.DELETE("/:id", h.DeleteVendor)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Vendors
// @Success		204
// @Router			/v1/vendors [options]
func OptionsVendorList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Vendors
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/vendors/{id} [options]
func (h Controller) OptionsVendorDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, err := h.co.Vendors.Get(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		List vendors
// @Description	Returns all vendors ordered by name
// @Tags			Vendors
// @Produce		json
// @Success		200	{object}	VendorListResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/vendors [get]
func (h Controller) GetVendors(c *gin.Context) {
	vendors, err := h.co.Vendors.All()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, VendorListResponse{Data: vendors})
}

// @Summary		Vendor names
// @Description	Returns the names of all vendors in alphabetical order
// @Tags			Vendors
// @Produce		json
// @Success		200	{object}	VendorNamesResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/vendors/names [get]
func (h Controller) GetVendorNames(c *gin.Context) {
	names, err := h.co.Vendors.Names()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, VendorNamesResponse{Data: names})
}

// @Summary		Create vendor
// @Description	Creates a new vendor. The name must be unique.
// @Tags			Vendors
// @Produce		json
// @Success		201		{object}	VendorResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			vendor	body		controllers.VendorData	true	"Vendor"
// @Router			/v1/vendors [post]
func (h Controller) CreateVendor(c *gin.Context) {
	var data controllers.VendorData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	vendor, err := h.co.Vendors.Add(uuid.Nil, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, VendorResponse{Data: vendor})
}

// @Summary		Get vendor
// @Description	Returns a specific vendor
// @Tags			Vendors
// @Produce		json
// @Success		200	{object}	VendorResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/vendors/{id} [get]
func (h Controller) GetVendor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	vendor, err := h.co.Vendors.Get(id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, VendorResponse{Data: vendor})
}

// @Summary		Update vendor
// @Description	Updates a vendor. A changed name is updated on all purchases of the vendor.
// @Tags			Vendors
// @Produce		json
// @Success		200		{object}	VendorResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		string					true	"ID formatted as string"
// @Param			vendor	body		controllers.VendorData	true	"Vendor"
// @Router			/v1/vendors/{id} [patch]
func (h Controller) UpdateVendor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var data controllers.VendorData
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	vendor, err := h.co.Vendors.Update(id, data)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, VendorResponse{Data: vendor})
}

// @Summary		Delete vendor
// @Description	Deletes a vendor. Vendors with purchases cannot be deleted.
// @Tags			Vendors
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/vendors/{id} [delete]
func (h Controller) DeleteVendor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.co.Vendors.Delete(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Export vendors
// @Description	Returns all vendors as CSV or XLSX file
// @Tags			Vendors
// @Produce		text/csv
// @Success		200
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			format	query		string	false	"csv or xlsx, defaults to csv"
// @Router			/v1/vendors/export [get]
func (h Controller) ExportVendors(c *gin.Context) {
	f, err := format(c.Query("format"), formatCSV, formatXLSX)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	vendors, err := h.co.Vendors.All()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	download(c, "vendors", f, report.Vendors(vendors))
}
