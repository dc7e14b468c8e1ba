package healthz

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/httputil"
	"github.com/purchase-zero/backend/pkg/store"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func RegisterRoutes(r *gin.RouterGroup, s *store.Store) {
	r.OPTIONS("", Options)
	r.GET("", Get(s))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object} httperrors.HTTPError
// @Router			/healthz [get]
func Get(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := db.Ping(c.Request.Context())
		if err != nil {
			httperrors.New(c, http.StatusInternalServerError, "The database is not reachable: %s", err.Error())
			return
		}

		c.Status(http.StatusNoContent)
	}
}
