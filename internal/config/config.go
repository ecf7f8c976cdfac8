package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"lexbill"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"lexbill"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Billing struct {
		NumberPrefix          string    `envconfig:"BILLING_NUMBER_PREFIX" default:"INV"`
		ZeroDecimalCurrencies []string  `envconfig:"BILLING_ZERO_DECIMAL_CURRENCIES" default:"JPY,KRW,VND,CLP,ISK,UGX"`
		Rates                 RateTable `envconfig:"BILLING_RATES"`
		// AllowOverpaymentHeader names the request header that lets a caller
		// record a payment above the remaining balance. Empty disables it.
		AllowOverpaymentHeader string `envconfig:"BILLING_ALLOW_OVERPAYMENT_HEADER" default:"X-Allow-Overpayment"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	}
}

// RateTable holds conversion rates written as "USD/INR=83.0,EUR/USD=1.08".
type RateTable map[string]string

func (t *RateTable) Decode(value string) error {
	table := RateTable{}

	for item := range strings.SplitSeq(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, rate, ok := strings.Cut(item, "=")
		if !ok {
			return fmt.Errorf("invalid rate %q: expected FROM/TO=RATE", item)
		}

		from, to, ok := strings.Cut(key, "/")
		if !ok {
			return fmt.Errorf("invalid rate %q: expected FROM/TO=RATE", item)
		}

		table[strings.TrimSpace(from)+":"+strings.TrimSpace(to)] = strings.TrimSpace(rate)
	}

	*t = table

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Converter builds the currency converter for the configured zero-decimal set.
func (c *Config) Converter() (*currency.Converter, error) {
	codes := make([]currency.Code, 0, len(c.Billing.ZeroDecimalCurrencies))

	for _, raw := range c.Billing.ZeroDecimalCurrencies {
		code, err := currency.ParseCode(raw)
		if err != nil {
			return nil, fmt.Errorf("zero decimal currencies: %w", err)
		}

		codes = append(codes, code)
	}

	return currency.NewConverter(codes...), nil
}

// RateSource builds the static rate table used to freeze conversions.
func (c *Config) RateSource() (*currency.StaticRates, error) {
	rates, err := currency.NewStaticRates(c.Billing.Rates)
	if err != nil {
		return nil, fmt.Errorf("billing rates: %w", err)
	}

	return rates, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
