// Command mensura converts values between units from the command line or
// over HTTP.
//
//	mensura convert 1000 meter mile
//	mensura path gallon milliliter
//	mensura units
//	mensura --catalog ./units.yaml serve --addr :8080 --watch
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cobra prints the error itself.
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
