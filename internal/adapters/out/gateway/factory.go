package gateway

import (
	"net/http"
	"strings"

	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Factory builds country-scoped gateways that share one http.Client.
type Factory struct {
	baseURL string
	header  string
	http    *http.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewFactory(cfg Config, m *metrics.Metrics, logger *zap.Logger) *Factory {
	header := strings.TrimSpace(cfg.CountryHeader)
	if header == "" {
		header = DefaultCountryHeader
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Factory{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		header:  header,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
		logger:  logger.With(zap.String("component", "gateway")),
	}
}

func (f *Factory) ForCountry(country string) ports.ServiceGateway {
	return f.Client(country)
}

// Client returns the concrete client of a country.
func (f *Factory) Client(country string) *Client {
	return &Client{
		baseURL: f.baseURL,
		country: country,
		header:  f.header,
		http:    f.http,
		metrics: f.metrics,
		logger:  f.logger,
	}
}
