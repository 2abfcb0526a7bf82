package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophinvoice/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the mailbox server
//	-d string   path of the local SQLite database
//	-g string   payment gateway base URL
//	-l string   log level
//
// Only these flags are taken from os.Args (via flagx.FilterArgs), so other
// loaders can share the command line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-g", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local database file")
	fs.StringVar(&cfg.PaymentGatewayURL, "g", cfg.PaymentGatewayURL, "payment gateway base URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
