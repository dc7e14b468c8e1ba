package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/httperrors"
	"github.com/purchase-zero/backend/pkg/report"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// download renders the document in the format and sends it as attachment
// named name with the format as extension.
func download(c *gin.Context, name, f string, doc report.Document) {
	var buf bytes.Buffer
	var err error

	contentType := contentTypeCSV
	switch f {
	case formatXLSX:
		contentType = contentTypeXLSX
		err = report.WriteXLSX(&buf, doc)
	default:
		err = report.WriteCSV(&buf, doc)
	}

	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Str("report", name).Msg("could not render report")
		httperrors.New(c, http.StatusInternalServerError, "The %s report could not be rendered", name)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, f))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
