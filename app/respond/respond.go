// Package respond contains the helpers handlers use to write responses
package respond

import (
	"bitwise74/account-api/internal/service"
	"bitwise74/account-api/pkg/util"
	"bitwise74/account-api/pkg/validators"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgSuccess = "success"

// OK writes a 200 envelope. An empty message defaults to "success".
func OK(c *gin.Context, message string, data any) {
	if message == "" {
		message = msgSuccess
	}
	if data == nil {
		data = gin.H{}
	}

	util.Respond(c, http.StatusOK, message, data)
}

// Fail writes the envelope for err. Errors that aren't service errors are
// logged and reported as a generic internal error.
func Fail(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var se *service.Error
	if errors.As(err, &se) {
		util.Abort(c, se.Kind.Status(), se.Msg)

		zap.L().Debug("Request rejected", zap.String("reason", se.Error()), zap.String("requestID", requestID))
		return
	}

	util.Abort(c, http.StatusInternalServerError, "Internal server error")

	zap.L().Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()), zap.String("requestID", requestID))
}

// Bind decodes the JSON body into dst and validates it. It writes the error
// response itself and returns false when the request should stop.
func Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			util.Abort(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
			return false
		}

		util.Abort(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
		return false
	}

	if err := validators.Struct(dst); err != nil {
		var ve *validators.ValidationError
		if errors.As(err, &ve) {
			util.Abort(c, http.StatusBadRequest, ve.Error())
			return false
		}

		Fail(c, err)
		return false
	}

	return true
}

// ID parses the :id path parameter
func ID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		util.Abort(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}

	return uint(id), true
}

// Log records a failure that doesn't change the response
func Log(c *gin.Context, msg string, err error) {
	zap.L().Error(msg, zap.Error(err), zap.String("requestID", c.GetString("requestID")))
}
