package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for short synchronous
// computations; the slowest path is a store round-trip.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
