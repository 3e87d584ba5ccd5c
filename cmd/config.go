package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"orders/internal/adapters/out/gateway"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/jobs"
	"orders/internal/pkg/tenant"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	GatewayBaseURL string
	GatewayTimeout time.Duration
	CountryHeader  string
	DefaultCountry string
	Countries      []string

	// Tenants are the configured countries plus the default one. They are
	// migrated at start-up, reconciled by the jobs and the only countries
	// requests may address.
	Tenants tenant.Countries

	DefaultPurchaseLeadDays int
	DefaultSaleLeadDays     int
	Currency                string

	PubSubProject      string
	PubSubTopic        string
	PubSubSubscription string
	KafkaBrokers       string
	KafkaTopic         string

	ReconcileSchedule   string
	ReconcileStaleAfter time.Duration
	ReconcileLimit      int

	LogLevel string
}

// LoadEnvFile loads .env into the process environment when the file exists.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the configuration through getenv, applying defaults to
// unset values.
func LoadConfig(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}
	defaults := commands.DefaultSettings()

	cfg := Config{
		HTTPPort:   r.str("HTTP_PORT", "8080"),
		DBHost:     r.str("DB_HOST", "localhost"),
		DBPort:     r.str("DB_PORT", "5432"),
		DBUser:     r.str("DB_USER", "postgres"),
		DBPassword: r.str("DB_PASSWORD", ""),
		DBName:     r.str("DB_NAME", "orders"),
		DBSslMode:  r.str("DB_SSLMODE", "disable"),

		GatewayBaseURL: r.str("GATEWAY_BASE_URL", ""),
		GatewayTimeout: r.duration("GATEWAY_TIMEOUT", gateway.DefaultTimeout),
		CountryHeader:  r.str("COUNTRY_HEADER", gateway.DefaultCountryHeader),
		DefaultCountry: r.str("DEFAULT_COUNTRY", "co"),
		Countries:      r.list("COUNTRIES"),

		DefaultPurchaseLeadDays: r.integer("DEFAULT_PURCHASE_LEAD_DAYS", defaults.DefaultPurchaseLeadDays),
		DefaultSaleLeadDays:     r.integer("DEFAULT_SALE_LEAD_DAYS", defaults.DefaultSaleLeadDays),
		Currency:                r.str("CURRENCY", defaults.Currency),

		PubSubProject:      r.str("PUBSUB_PROJECT", ""),
		PubSubTopic:        r.str("PUBSUB_TOPIC", ""),
		PubSubSubscription: r.str("PUBSUB_SUBSCRIPTION", ""),
		KafkaBrokers:       r.str("KAFKA_BROKERS", ""),
		KafkaTopic:         r.str("KAFKA_TOPIC", ""),

		ReconcileSchedule:   r.str("RECONCILE_SCHEDULE", jobs.DefaultReconcileSchedule),
		ReconcileStaleAfter: r.duration("RECONCILE_STALE_AFTER", 15*time.Minute),
		ReconcileLimit:      r.integer("RECONCILE_LIMIT", jobs.DefaultReconcileLimit),

		LogLevel: r.str("LOG_LEVEL", "info"),
	}

	tenants, err := tenant.NewCountries(append(slices.Clone(cfg.Countries), cfg.DefaultCountry)...)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("COUNTRIES: %w", err))
	}
	cfg.Tenants = tenants
	if cfg.GatewayBaseURL == "" {
		r.errs = append(r.errs, errors.New("GATEWAY_BASE_URL is required"))
	}
	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

func (c Config) Settings() commands.Settings {
	return commands.Settings{
		DefaultPurchaseLeadDays: c.DefaultPurchaseLeadDays,
		DefaultSaleLeadDays:     c.DefaultSaleLeadDays,
		Currency:                c.Currency,
	}
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) integer(key string, fallback int) int {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(r.getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
