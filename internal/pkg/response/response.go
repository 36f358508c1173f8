package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta carries diagnostic information alongside a rendered document.
type Meta struct {
	Model     string   `json:"model"`
	Category  string   `json:"category,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Attempts  int      `json:"attempts,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Output sends a 200 response with the rendered document and its metadata.
func Output(c *gin.Context, output string, meta Meta) {
	c.JSON(http.StatusOK, gin.H{"output": output, "meta": meta})
}

// OK sends a 200 response with an arbitrary payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
}

// InternalError sends a 500 error response. The message should be an
// operator-facing hint, never provider internals.
func InternalError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
}
