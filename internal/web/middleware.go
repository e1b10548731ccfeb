package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/service"
)

// RequestLogger logs one line per request.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.WithFields(log.Fields{
				"method":  req.Method,
				"path":    req.URL.Path,
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			}).Debug("request")
			return nil
		}
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// errorHandler maps domain errors onto HTTP statuses.
func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := http.StatusText(status)

		var nf *service.TaskNotFoundError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &nf):
			status, msg = http.StatusNotFound, nf.Error()
		case errors.Is(err, service.ErrNotFound):
			status, msg = http.StatusNotFound, err.Error()
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		}
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, errorResponse{Message: msg})
		}
		if werr != nil {
			logger.WithError(werr).Error("write error response")
		}
	}
}
