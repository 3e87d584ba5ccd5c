package http

import (
	"strconv"
	"strings"
	"time"

	"orders/internal/core/application/audit"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID = "X-User-ID"

	auditKey = "audit"
)

// auditContext builds the audit context of the request from its headers.
// A malformed X-User-ID is ignored.
func (s *Server) auditContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		actx := audit.Context{
			RequestID: req.Header.Get(echo.HeaderXRequestID),
			Country:   strings.TrimSpace(req.Header.Get(s.config.CountryHeader)),
			IP:        c.RealIP(),
		}
		if raw := strings.TrimSpace(req.Header.Get(HeaderUserID)); raw != "" {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				actx.UserID = &v
			}
		}
		c.Set(auditKey, actx)
		return next(c)
	}
}

// observe counts requests by route and status and records their latency.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
		s.metrics.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
		return nil
	}
}

func auditOf(c echo.Context) audit.Context {
	actx, _ := c.Get(auditKey).(audit.Context)
	return actx
}

// scopedAudit is the audit context with the default country applied when the
// request carries none. The country must be one the service serves.
func (s *Server) scopedAudit(c echo.Context) (audit.Context, error) {
	actx := auditOf(c)
	if actx.Country == "" {
		actx.Country = s.config.DefaultCountry
	}
	country, err := s.config.Countries.Resolve(actx.Country)
	if err != nil {
		return audit.Context{}, err
	}
	actx.Country = country
	return actx, nil
}
