package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

const startTimeKey = "request_start_time"

// Envelope is the response contract shared by every endpoint:
// {success, message, data, pagination?, response_time_ms}.
type Envelope struct {
	Success        bool               `json:"success"`
	Message        string             `json:"message"`
	Data           interface{}        `json:"data,omitempty"`
	Pagination     *models.Pagination `json:"pagination,omitempty"`
	ResponseTimeMs int64              `json:"response_time_ms"`
}

// Timing records the request start so response_time_ms can be computed.
func Timing() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startTimeKey, time.Now())
		c.Next()
	}
}

func elapsedMs(c *gin.Context) int64 {
	value, exists := c.Get(startTimeKey)
	if !exists {
		return 0
	}
	start, ok := value.(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start).Milliseconds()
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, message string, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{
		Success:        true,
		Message:        message,
		Data:           data,
		Pagination:     pagination,
		ResponseTimeMs: elapsedMs(c),
	})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data, nil)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data, nil)
}

// Error sends a failure envelope converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{
		Success:        false,
		Message:        appErr.Message,
		ResponseTimeMs: elapsedMs(c),
	})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
