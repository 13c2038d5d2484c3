// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// The Gastro Server exposes the restaurant catalog and authenticates restaurant owners.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// Server context
type Server struct {
	*conf.Config
	stor.Store
	OTP    *otp.Service
	Router *chi.Mux
}

func main() {

	s := Server{}

	// Initialize the configuration from a config file or/and environment variables
	c, err := conf.Init(os.Getenv("GASTRO_CONFIG"))
	if err != nil {
		log.Println("Configuration failed: " + err.Error())
		os.Exit(1)
	}
	s.Config = c

	// Set the log level and format
	if s.Config.LogLevel != "" {
		level, err := log.ParseLevel(s.Config.LogLevel)
		if err != nil {
			log.Println("Invalid log level specified, defaulting to debug")
			level = log.DebugLevel
		}
		log.SetLevel(level)
		log.SetFormatter(&log.TextFormatter{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.initialize(ctx); err != nil {
		log.Errorf("Initialization failed: %v", err)
		os.Exit(1)
	}
	defer s.Store.Close()

	// Expired passcodes are purged in the background
	go s.OTP.RunPurge(ctx, s.Config.OTP.PurgeInterval)

	// Graceful shutdown
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(c.Port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// System signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %d, passcodes via %s", c.Port, c.OTP.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutdown requested, initiating graceful shutdown...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}
	log.Println("Server halted.")
}

// initialize sets the database, the passcode service and routes
func (s *Server) initialize(ctx context.Context) error {
	var err error

	// Init database
	s.Store, err = stor.Init(s.Config.Dsn)
	if err != nil {
		return err
	}

	// Init the passcode service
	s.OTP, err = newOTPService(ctx, s.Config, s.Store)
	if err != nil {
		s.Store.Close()
		return err
	}

	// Init routes
	s.Router = s.setRoutes()
	return nil
}

// newOTPService selects how owners prove they own a phone number.
func newOTPService(ctx context.Context, c *conf.Config, st stor.Store) (*otp.Service, error) {
	switch c.OTP.Provider {
	case conf.ProviderTwilio:
		return otp.NewService(c.OTP, st, otp.NewTwilioSender(c.Twilio)), nil
	case conf.ProviderFirebase:
		verifier, err := otp.NewFirebaseVerifier(ctx, c.Firebase)
		if err != nil {
			return nil, err
		}
		// the client sends the SMS, the server only checks the resulting ID token
		return otp.NewService(c.OTP, st, nil).WithIdentityVerifier(verifier), nil
	default:
		log.Warn("Passcodes are only logged, do not use this provider in production")
		return otp.NewService(c.OTP, st, otp.LogSender{}), nil
	}
}
