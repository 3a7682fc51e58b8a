// cmd/api/server.go
// This file contains the serve() method which starts the HTTP server and
// handles graceful shutdown when an OS signal is received.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// serve builds the HTTP server, starts it, then blocks until it receives a
// SIGINT or SIGTERM. In-flight requests get 20 seconds to finish.
func (app *applicationDependencies) serve() error {
	errorLog, err := zap.NewStdLogAt(app.logger, zap.ErrorLevel)
	if err != nil {
		return err
	}

	// Configure the HTTP server.
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		// Relay handlers wait on a loopback call, so leave room for it.
		WriteTimeout: 10*time.Second + app.config.relay.timeout,
		ErrorLog:     errorLog,
	}

	// shutdownErr receives any error returned by Shutdown().
	shutdownErr := make(chan error)

	// Background goroutine: wait for a shutdown signal then gracefully stop.
	go func() {
		// Buffered so the signal package never blocks.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		// Block until a signal arrives.
		s := <-quit
		app.logger.Info("shutting down server", zap.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		// Shutdown stops accepting new connections and waits for active
		// requests to finish, up to the context deadline.
		shutdownErr <- apiServer.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		zap.String("address", apiServer.Addr),
		zap.String("environment", app.config.environment),
	)

	// ErrServerClosed is the normal result once Shutdown has been called.
	err = apiServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Wait for the shutdown goroutine and collect its error.
	err = <-shutdownErr
	if err != nil {
		return err
	}

	app.logger.Info("server stopped", zap.String("address", apiServer.Addr))
	return nil
}
