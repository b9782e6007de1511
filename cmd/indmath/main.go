// Command indmath is the industrial-mathematics calculator.
//
// Usage:
//
//	indmath lp --c1 40 --c2 60 --y2 33.33 --x3 50 [--plot chart.svg]
//	indmath eoq --demand 1000 --ordering-cost 50000 --holding-cost 10000
//	indmath mm1 --arrival-rate 2 --service-rate 5
//	indmath diff "x**2*y + 3*x*y**2" [--at 1,2]
//	indmath serve --addr :8080
//	indmath config
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errPanel) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
