package http

import (
	"errors"
	"net/http"

	"orders/internal/adapters/out/gateway"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusOf maps a use case failure to its HTTP status.
func statusOf(err error) int {
	var (
		httpErr    *echo.HTTPError
		downstream *gateway.DownstreamError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrVersionIsInvalid), errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict
	case errs.IsBusinessError(err):
		return http.StatusBadRequest
	case errors.As(err, &downstream), errors.Is(err, gateway.ErrUnavailable), errors.Is(err, gateway.ErrMissingID):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// notFoundAware turns a missing order into a 404 for reads by id.
func notFoundAware(err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return &echo.HTTPError{Code: http.StatusNotFound, Message: err.Error(), Internal: err}
	}
	return err
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusOf(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)
		if code == http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Code: code, Message: message})
	}
	if err != nil {
		s.logger.Error("write error response", zap.Error(err))
	}
}
