package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/localstt/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError aborts the request with err's status and error envelope.
func RespondWithError(c *gin.Context, err error) {
	status, body := errors.ResponseFor(err)
	c.AbortWithStatusJSON(status, body)
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
