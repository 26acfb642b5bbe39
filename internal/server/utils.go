package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/view"
	"github.com/philipparndt/gotakeoff/pkg/scale"
	"github.com/sirupsen/logrus"
)

// ginLogger logs requests with logrus
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		stop := time.Since(start)
		latency := int(math.Ceil(float64(stop.Nanoseconds()) / 1000000.0))
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency,
			"method":     c.Request.Method,
			"path":       path,
		})

		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}
		msg := fmt.Sprintf("%s %s %d (%dms)", c.Request.Method, path, statusCode, latency)
		if statusCode >= http.StatusInternalServerError {
			entry.Error(msg)
		} else {
			entry.Debug(msg)
		}
	}
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	var (
		calErr   *calibration.InvalidCalibrationError
		ratioErr *calibration.InvalidRatioError
		ptsErr   *measurement.InsufficientPointsError
		recErr   *measurement.InvalidRecordError
	)
	switch {
	case errors.Is(err, engine.ErrNoDocument),
		errors.Is(err, engine.ErrNotAwaitingDistance),
		errors.Is(err, calibration.ErrNotCalibrating):
		return http.StatusConflict
	case errors.Is(err, measurement.ErrUnknownLayer),
		errors.Is(err, document.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, document.ErrRasterizerUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &calErr),
		errors.As(err, &ratioErr),
		errors.As(err, &ptsErr),
		errors.As(err, &recErr),
		errors.Is(err, scale.ErrInvalidNotation),
		errors.Is(err, view.ErrInvalidRotation),
		errors.Is(err, engine.ErrInvalidPoint):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	c.IndentedJSON(status, gin.H{"error": err.Error()})
	_ = c.AbortWithError(status, err)
}
