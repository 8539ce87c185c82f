package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/caphound/caphound/server/flags"
	"github.com/caphound/caphound/server/log"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

// Global context for shutdown cascading. When cancel() is called (from signal handler),
// all goroutines watching ctx.Done() begin their shutdown sequence.
var ctx, cancel = context.WithCancel(context.Background())

// wg tracks the two main goroutines: hunt controller and HTTP API.
// main() blocks on wg.Wait() and only exits when both are done.
var wg sync.WaitGroup

func main() {
	// Setup logger first as this will be used to report progress of the rest of the setup
	if err := log.Init(); err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, err))
		os.Exit(1)
	}
	log.Info("Caphound server starting up...", "version", version, "commit", commit)

	if err := loadConfig(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	setupInterrupts()

	// Setup hunt controller
	if err := createController(); err != nil {
		log.Error("Failed to create hunt controller", "error", err)
		os.Exit(1)
	}

	// Controller goroutine: waits for ctx cancellation, then orchestrates a
	// graceful shutdown: Shutdown() interrupts the running hunt, Wait() blocks
	// until its loop has exited, then wg.Done() unblocks main.
	wg.Add(1)
	go func() {
		<-ctx.Done() // triggered by cancel() in signal handler
		controller.Shutdown()
		controller.Wait()
		wg.Done()
	}()

	// Without the API there is nobody to press start, so the hunt starts
	// itself regardless of the auto-start setting.
	apiEnabled := viper.GetBool("api.enabled")
	if viper.GetBool(flags.AutoStart) || !apiEnabled {
		if err := controller.Start(); err != nil {
			log.Error("Failed to start hunt", "error", err)
			os.Exit(1)
		}
	}

	if apiEnabled {
		serveAPI()
	} else {
		// Headless mode: the process lives exactly as long as the hunt.
		controller.Wait()
		cancel()
	}

	// Block until both controller and HTTP server goroutines have finished.
	wg.Wait()
	log.Info("Shutdown completed. Bye!")
}

func serveAPI() {
	lis, err := net.Listen("tcp", viper.GetString(flags.Listen))
	if err != nil {
		log.Error("Failed to listen", "error", err)
		os.Exit(1)
	}

	api := newAPIServer(tracker, controller)
	httpServer := &http.Server{Handler: api.routes()}

	// HTTP server goroutine. A nested goroutine watches for shutdown and calls
	// Shutdown(), which stops accepting new connections and drains in-flight
	// requests. Then Serve() returns and wg.Done() unblocks main.
	wg.Add(1)
	go func() {
		go func() {
			<-ctx.Done() // triggered by cancel() in signal handler
			drain, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := httpServer.Shutdown(drain); err != nil {
				log.Warn("Failed to drain HTTP connections", "error", err)
			}
		}()

		log.Info("Server listening", "address", lis.Addr())
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to serve", "error", err)
			os.Exit(1)
		}
		wg.Done()
	}()
}

// setupInterrupts handles Ctrl+C (SIGINT) with a double-tap pattern:
// - First signal: calls cancel() which cascades shutdown through ctx.Done() to all goroutines
// - Second signal: forces immediate exit (in case graceful shutdown hangs)
func setupInterrupts() {
	sig := make(chan os.Signal, 1) // buffered: won't miss a signal while processing
	signal.Notify(sig, os.Interrupt)

	go func() {
		<-sig
		log.Info("Shutdown signal received, attempting graceful shutdown")
		cancel() // triggers ctx.Done() everywhere
		<-sig
		log.Warn("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()
}
