package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/models"
)

type ExportResponse struct {
	Version      string           `json:"version" example:"1.2.0"` // Version of the backend that created the export
	CreationTime time.Time        `json:"creationTime" example:"2024-03-15T10:15:00Z"`
	Data         models.RecordSet `json:"data"`
}

// RegisterExportRoutes registers the routes for the export with
// the RouterGroup that is passed.
func (h Controller) RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsExport)
	r.GET("", h.GetExport)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Export
// @Success		204
// @Router			/v1/export [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export
// @Description	Exports all vendors, budgets and purchases as flat records
// @Tags			Export
// @Produce		json
// @Success		200	{object}	ExportResponse
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/export [get]
func (h Controller) GetExport(c *gin.Context) {
	records, err := h.co.Store.Export()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, ExportResponse{
		Version:      h.version,
		CreationTime: h.co.Now(),
		Data:         records,
	})
}
