package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the GophInvoice CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the mailbox gRPC endpoint.
//   - DatabaseDSN: path of the local SQLite file with pinned contact keys.
//   - PaymentGatewayURL: base URL of the payment gateway; empty means payments
//     are only logged.
//   - PaymentTimeout: HTTP timeout for one payment request.
//   - RequestTimeout: timeout for one gRPC call.
//   - IdentityCacheSize: LRU capacity for resolved identity keys.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr string        `env:"GOPHINVOICE_SERVER_ADDR"`
	DatabaseDSN        string        `env:"GOPHINVOICE_DATABASE"`
	PaymentGatewayURL  string        `env:"GOPHINVOICE_PAYMENT_GATEWAY"`
	PaymentTimeout     time.Duration `env:"GOPHINVOICE_PAYMENT_TIMEOUT"`
	RequestTimeout     time.Duration `env:"GOPHINVOICE_REQUEST_TIMEOUT"`
	IdentityCacheSize  int           `env:"GOPHINVOICE_IDENTITY_CACHE_SIZE"`
	LogLevel           string        `env:"GOPHINVOICE_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabaseDSN = defaultDatabasePath()
	c.PaymentGatewayURL = ""
	c.PaymentTimeout = 10 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.IdentityCacheSize = 256
	c.LogLevel = "warn"
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gophinvoice.db"
	}
	return filepath.Join(dir, "gophinvoice", "client.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
