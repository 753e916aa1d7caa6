package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/opticom-io/opticom/internal/chat"
)

func main() {
	// The port is parsed by hand so a malformed value degrades to the
	// default with a warning instead of aborting flag parsing.
	var portArg string
	flag.StringVar(&portArg, "p", strconv.Itoa(defaultPort), "listening port (1-65535)")
	flag.StringVar(&portArg, "port", strconv.Itoa(defaultPort), "listening port (1-65535)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port, err := parsePort(portArg)
	if err != nil {
		logger.Warn("invalid port, using default", "port", portArg, "default", defaultPort)
		port = defaultPort
	}

	srv := chat.NewServer(fmt.Sprintf(":%d", port), logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	srv.Stop()
}
