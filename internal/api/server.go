// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alpha-scanner/internal/logging"
	"github.com/alpha-scanner/internal/types"
	"github.com/gorilla/mux"
)

// ScanServiceInterface defines the scan operations the API exposes.
// Defined here for dependency injection and testing.
type ScanServiceInterface interface {
	Scan(ctx context.Context, tokenAddress string, offset int) (*types.ScanPage, error)
	Aggregate(ctx context.Context, walletAddress string) (*types.WalletPerformanceSummary, error)
	WalletTokens(ctx context.Context, walletAddress string) ([]types.TokenPerformanceRecord, error)
}

// Server represents the HTTP API server.
type Server struct {
	router      *mux.Router
	httpServer  *http.Server
	scanService ScanServiceInterface
	config      *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, scanService ScanServiceInterface) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		scanService: scanService,
		config:      config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	// Middleware order matters: request IDs first so logging sees them.
	s.router.Use(RequestIDMiddleware)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tokens/{token}/alpha-buyers", s.handleScanAlphaBuyers).Methods("GET")
	api.HandleFunc("/wallets/{address}/performance", s.handleWalletPerformance).Methods("GET")
	api.HandleFunc("/wallets/{address}/tokens", s.handleWalletTokens).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "alpha-scanner",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
