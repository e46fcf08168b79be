package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/studysphere/googleauth"
	grouprepofakes "github.com/jrsteele09/studysphere/groups/repofakes"
	"github.com/jrsteele09/studysphere/internal/config"
	"github.com/jrsteele09/studysphere/internal/logging"
	"github.com/jrsteele09/studysphere/server"
	fakesessionrepo "github.com/jrsteele09/studysphere/sessions/repofakes"
	fakeuserrepo "github.com/jrsteele09/studysphere/users/repofake"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logging.Setup(c.GetLogLevel(), c.GetEnv())
	displayAppname(c.GetAppName())

	var options []server.Option
	if clientID := c.GetGoogleClientID(); clientID != "" {
		verifier, err := googleauth.NewVerifier(context.Background(), clientID)
		if err != nil {
			return fmt.Errorf("google verifier: %w", err)
		}
		options = append(options, server.WithGoogleVerifier(verifier))
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, Google login is disabled")
	}

	repos := server.Repos{
		Accounts: fakeuserrepo.NewFakeAccountRepo(),
		Groups:   grouprepofakes.NewFakeGroupRepo(),
		Sessions: fakesessionrepo.NewFakeSessionRepo(),
	}
	handler, err := server.New(c, repos, options...)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	if password := handler.AdminPassword(); password != "" {
		fmt.Println()
		fmt.Println("============================================================")
		fmt.Printf("  Admin username: %s\n", c.GetAdminUsername())
		fmt.Printf("  Admin password: %s\n", password)
		fmt.Println("  This password is only shown once.")
		fmt.Println("============================================================")
		fmt.Println()
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(srv)
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
