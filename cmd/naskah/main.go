// Command naskah runs the manuscript submission service and its tools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// a second signal forces the exit
		<-sigCh
		fmt.Fprintln(os.Stderr, "second interrupt received, forcing shutdown")
		os.Exit(1)
	}()

	err := newRootCmd().ExecuteContext(ctx)
	signal.Stop(sigCh)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
