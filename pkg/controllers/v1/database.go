package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/store"
)

type BackupResponse struct {
	Data BackupObject `json:"data"`
}

type BackupObject struct {
	Path string `json:"path" example:"backups/purchases_20240315_101500.db"` // Path of the backup file on the server
}

// RestoreEditable selects the backup to restore.
type RestoreEditable struct {
	Path string `json:"path" example:"backups/purchases_20240315_101500.db"`
}

type StatsResponse struct {
	Driver string      `json:"driver" example:"sqlite"`
	Data   store.Stats `json:"data"`
}

// RegisterDatabaseRoutes registers the routes for database maintenance
// with the RouterGroup that is passed.
func (h Controller) RegisterDatabaseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/backup", OptionsDatabasePost)
	r.POST("/backup", h.CreateBackup)
	r.OPTIONS("/restore", OptionsDatabasePost)
	r.POST("/restore", h.RestoreBackup)
	r.OPTIONS("/stats", OptionsDatabaseStats)
	r.GET("/stats", h.GetStats)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Database
// @Success		204
// @Router			/v1/database/backup [options]
// @Router			/v1/database/restore [options]
func OptionsDatabasePost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Database
// @Success		204
// @Router			/v1/database/stats [options]
func OptionsDatabaseStats(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Create backup
// @Description	Writes a snapshot of the database to the backup directory. Only supported for sqlite files.
// @Tags			Database
// @Produce		json
// @Success		201	{object}	BackupResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/database/backup [post]
func (h Controller) CreateBackup(c *gin.Context) {
	path, err := h.co.Store.Backup(h.co.Now())
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, BackupResponse{Data: BackupObject{Path: path}})
}

// @Summary		Restore backup
// @Description	Replaces the database with a backup. The backup is validated first.
// @Tags			Database
// @Success		204
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			backup	body		RestoreEditable	true	"Backup"
// @Router			/v1/database/restore [post]
func (h Controller) RestoreBackup(c *gin.Context) {
	var data RestoreEditable
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	if data.Path == "" {
		httperrors.Handler(c, errPathRequired)
		return
	}

	if err := h.co.Store.Restore(data.Path); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Database statistics
// @Description	Returns the number of records per kind and the purchases per approval status
// @Tags			Database
// @Produce		json
// @Success		200	{object}	StatsResponse
// @Router			/v1/database/stats [get]
func (h Controller) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Driver: h.co.Store.Driver(),
		Data:   h.co.Store.Stats(),
	})
}
