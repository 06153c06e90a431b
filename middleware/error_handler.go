package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
)

// ErrorHandler renders the last error pushed with c.Error. APIErrors keep
// their status and fields; context errors become 408; anything else is a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var apiErr common.APIError
		if !errors.As(err, &apiErr) {
			if ctxErr, ok := common.FromContext(err); ok {
				apiErr = ctxErr
			}
		}

		if apiErr.Status != 0 {
			response := gin.H{"error": apiErr.Message}
			if apiErr.Fields != nil {
				response["fields"] = apiErr.Fields
			}
			c.JSON(apiErr.Status, response)
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
