// Command surfctl scores surf conditions from the terminal: ad-hoc readings,
// the tide estimate, the spot catalog and a live weekly outlook.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(clockwork.NewRealClock()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
