package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
)

// Envelope is the wire contract shared by every JSON endpoint: success
// responses carry `success: true` plus optional payload fields, failures a
// bare `error` string.
type Envelope struct {
	Success     bool        `json:"success,omitempty"`
	Application interface{} `json:"application,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// OK sends a plain success acknowledgement.
func OK(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, Envelope{Success: true})
}

// Application sends a success response carrying the created application row.
func Application(c *gin.Context, app interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, Envelope{Success: true, Application: app})
}

// JSON sends a success response with an arbitrary data payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr.Message})
}
