package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"recommendations/internal/apierror"
	"recommendations/internal/model"
	"recommendations/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// Keep integer payload values exact instead of routing them through float64.
	binding.EnableDecoderUseNumber = true
}

const jsonContentType = "application/json"

// requireJSON rejects bodies whose Content-Type is not exactly application/json.
// Returns false and writes the 415 response; the caller should return immediately.
func requireJSON(c *gin.Context) bool {
	if c.GetHeader("Content-Type") != jsonContentType {
		c.JSON(http.StatusUnsupportedMediaType, apierror.New(http.StatusUnsupportedMediaType, apierror.MsgContentType))
		return false
	}
	return true
}

// bindPayload decodes the body into a generic JSON value. An empty body yields
// a nil payload, which entity validation rejects with its own message.
func bindPayload(c *gin.Context) (any, bool) {
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, apierror.MsgInvalidJSON))
		return nil, false
	}
	return payload, true
}

// parseID reads the :id path parameter. Non-integer ids never match a
// recommendation, so they are answered with the usual 404.
func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(http.StatusNotFound, notFoundMessage(raw)))
		return 0, false
	}
	return id, true
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Recommendation with id '%s' was not found.", id)
}

// respondError maps a service error to its HTTP status. Server-side failures
// are attached to the context so ErrorHandler logs them; clients only get the
// generic message.
func respondError(c *gin.Context, err error) {
	var verr *model.ValidationError
	var serr *repository.StorageError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, verr.Message))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(http.StatusNotFound, notFoundMessage(c.Param("id"))))
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(http.StatusConflict, apierror.MsgConflict))
	case errors.As(err, &serr):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(http.StatusInternalServerError, apierror.MsgDatabase))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(http.StatusInternalServerError, apierror.MsgUnexpected))
	}
}
