// Package main is the entry point for the resolvo CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relicta-tech/resolvo/internal/cli"
)

// Version information set by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

func main() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	cli.SetVersionInfo(version, commit, date)

	cleanup := func() { signal.Stop(sigChan) }
	os.Exit(run(context.Background(), sigChan, cli.ExecuteContext, cleanup, os.Stderr, os.Exit))
}

// run executes the CLI with graceful shutdown handling. The first signal
// cancels the context so the command can wind down; a second signal, or a
// shutdown that overruns shutdownTimeout, forces exit. Returns the process
// exit code: 0 on success, 1 on error, 130 when interrupted.
func run(ctx context.Context, sigChan chan os.Signal, execute func(context.Context) error, cleanup func(), stderr io.Writer, exit func(int)) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watchSignals(sigChan, done, cancel, stderr, exit)
	}()

	var code int
	if err := execute(ctx); err != nil {
		if ctx.Err() != nil {
			// Cobra surfaces the interruption as an ordinary error.
			fmt.Fprintln(stderr, "Operation canceled")
			code = 130
		} else {
			// Errors are printed here since SilenceErrors is set on the root.
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code = 1
		}
	}

	close(done)
	cancel()
	wg.Wait()
	cleanup()
	return code
}

// watchSignals turns the first signal into a context cancellation and any
// second signal into a forced exit.
func watchSignals(sigChan chan os.Signal, done <-chan struct{}, cancel context.CancelFunc, stderr io.Writer, exit func(int)) {
	var sig os.Signal
	select {
	case sig = <-sigChan:
	case <-done:
		return
	}

	fmt.Fprintf(stderr, "\nReceived signal %v, initiating graceful shutdown...\n", sig)
	cancel()

	shutdownTimer := time.NewTimer(shutdownTimeout)
	defer shutdownTimer.Stop()

	select {
	case <-done:
		// A second signal can land while the run winds down; a double
		// interrupt forces exit even then.
		select {
		case sig = <-sigChan:
			fmt.Fprintf(stderr, "\nReceived second signal %v, forcing exit\n", sig)
			exit(1)
		default:
		}
	case <-shutdownTimer.C:
		fmt.Fprintf(stderr, "\nShutdown timeout (%v) exceeded, forcing exit\n", shutdownTimeout)
		exit(1)
	case sig = <-sigChan:
		fmt.Fprintf(stderr, "\nReceived second signal %v, forcing exit\n", sig)
		exit(1)
	}
}
