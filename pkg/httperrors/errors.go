// Package httperrors writes errors as JSON responses.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Error string `json:"error" example:"the vendor name must be set"`
}

// New writes an HTTPError with the status and the formatted message.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	// Formatting follows testify's messageFromMsgAndArgs
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
		msg = fmt.Sprintf("%+v", msg)
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{
		Error: msg,
	})
}

func InvalidUUID(c *gin.Context) {
	New(c, http.StatusBadRequest, "The specified resource ID is not a valid UUID")
}

func InvalidQueryString(c *gin.Context) {
	New(c, http.StatusBadRequest, "The query string contains unparseable data. Please check the values")
}

// Status returns the HTTP status for an error returned by the controllers.
//
// Storage failures are 500, missing resources 404, everything else
// is a problem with the request.
func Status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Handler writes the error with the status from Status.
func Handler(c *gin.Context, err error) {
	if errors.Is(err, io.EOF) {
		New(c, http.StatusBadRequest, "The request body must not be empty")
		return
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	}

	c.JSON(status, HTTPError{
		Error: err.Error(),
	})
}
