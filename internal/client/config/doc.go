// Package config loads runtime configuration for the GophInvoice CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. GOPHINVOICE_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   address:port of the mailbox gRPC endpoint
//	-d string   local SQLite database file
//	-g string   payment gateway base URL
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_dsn": "/home/me/.config/gophinvoice/client.db",
//	  "payment_gateway_url": "https://pay.example.com",
//	  "payment_timeout": "10s",
//	  "request_timeout": "15s",
//	  "identity_cache_size": 256,
//	  "log_level": "info"
//	}
package config
