// Command server runs the GophInvoice mailbox: accounts, identity keys and
// encrypted message inboxes over gRPC.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophinvoice/internal/server"
	"github.com/dmitrijs2005/gophinvoice/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	app.Run(ctx)
}
