// Command folio manages clients, invoices, receipts and credit notes from
// the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xraph/folio/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
