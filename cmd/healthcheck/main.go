// Command healthcheck asks a local ghmirror server whether it is up and exits
// non-zero when it is not. It backs the container HEALTHCHECK.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/ghmirror/internal/adapter/driving/http"
	"github.com/ericfisherdev/ghmirror/internal/config"
)

const (
	healthPath = "/api/v1/health"
	timeout    = 2 * time.Second
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	addr := dialAddr(os.Getenv(config.EnvPrefix + "LISTEN_ADDR"))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	err := checkHealth(ctx, &http.Client{Timeout: timeout}, addr)
	cancel()

	if err != nil {
		logger.Error("unhealthy", "addr", addr, "error", err)
		os.Exit(1)
	}
}

// checkHealth succeeds only when the server answers 200 with status "ok".
func checkHealth(ctx context.Context, client *http.Client, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+healthPath, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", healthPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", healthPath, resp.StatusCode)
	}

	var body httphandler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("server reports status %q", body.Status)
	}
	return nil
}

// dialAddr turns the server's listen address into one this process can dial.
// The check runs beside the server, so wildcard binds become loopback. An
// unset or malformed value falls back to the server's default.
func dialAddr(listen string) string {
	if listen == "" {
		listen = config.DefaultListenAddr
	}

	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return config.DefaultListenAddr
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
