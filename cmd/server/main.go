package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/subscriber-portal/internal/api"
	"github.com/ignite/subscriber-portal/internal/config"
	"github.com/ignite/subscriber-portal/internal/directory"
	"github.com/ignite/subscriber-portal/internal/mailerlite"
	"github.com/ignite/subscriber-portal/internal/pkg/logger"
	"github.com/ignite/subscriber-portal/internal/web"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale/stub processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("Starting Subscriber Portal server...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("MAILERLITE_API_KEY") != "" {
		log.Println("[config] MAILERLITE_API_KEY env override active")
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		logger.SetLevelFromString(lvl)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	creds := directory.NewCredentials(cfg.MailerLite.BaseURL, cfg.MailerLite.CountryKeys)
	defaultCred := mailerlite.Credential{
		BaseURL: cfg.MailerLite.BaseURL,
		APIKey:  cfg.MailerLite.APIKey,
	}
	timeout := cfg.MailerLite.Timeout()
	factory := func(cred mailerlite.Credential) directory.RemoteClient {
		return mailerlite.NewClient(cred, timeout)
	}
	svc := directory.NewService(creds, defaultCred, factory)
	log.Printf("MailerLite client configured (base: %s, timeout: %s, countries: %d)",
		cfg.MailerLite.BaseURL, timeout, len(cfg.MailerLite.CountryKeys))

	webHandler := web.NewHandlers(svc).Router()
	router := api.SetupRoutes(api.NewHandlers(svc), webHandler, cfg.Auth.APIToken)
	if cfg.Auth.APIToken != "" {
		log.Println("API bearer-token auth enabled")
	} else {
		log.Println("API bearer-token auth disabled (PORTAL_API_TOKEN not set)")
	}

	server := api.NewServer(cfg.Server, router)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s:%d", host, port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Println("All services initialized — server is ready")

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
