package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophinvoice/internal/flagx"
	"github.com/dmitrijs2005/gophinvoice/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	PaymentGatewayURL  string         `json:"payment_gateway_url"`
	PaymentTimeout     timex.Duration `json:"payment_timeout"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	IdentityCacheSize  int            `json:"identity_cache_size"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays Config with the fields present in the JSON file named
// by -c or -config. Without such a flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.PaymentGatewayURL != "" {
		cfg.PaymentGatewayURL = jc.PaymentGatewayURL
	}
	if jc.PaymentTimeout.Duration > 0 {
		cfg.PaymentTimeout = jc.PaymentTimeout.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.IdentityCacheSize > 0 {
		cfg.IdentityCacheSize = jc.IdentityCacheSize
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
