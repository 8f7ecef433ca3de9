package server

import (
	"log"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triple-tgg/sams-sub000/internal/api"
	"github.com/triple-tgg/sams-sub000/internal/config"
	"github.com/triple-tgg/sams-sub000/internal/importer"
	"github.com/triple-tgg/sams-sub000/internal/refdata"
	"github.com/triple-tgg/sams-sub000/internal/session"
	"github.com/triple-tgg/sams-sub000/internal/store"
	"github.com/triple-tgg/sams-sub000/internal/uploader"
)

// Server is the HTTP server hosting the import API.
type Server struct {
	router   *gin.Engine
	store    *store.Store
	sessions *session.Manager
}

// NewServer wires the full service: sqlite audit store, session registry,
// reference data client, uploader, and routes.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "sams.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	timeout := time.Duration(cfg.Reference.TimeoutSecs) * time.Second
	sessions := session.NewManager()
	refClient := refdata.NewClient(cfg.Reference.BaseURL, timeout)
	coordinator := importer.NewCoordinator(refClient, sessions)
	up := uploader.New(cfg.Reference.BaseURL, timeout)

	handler := api.NewHandler(sessions, coordinator, up, sqliteStore)

	s := &Server{
		router:   gin.Default(),
		store:    sqliteStore,
		sessions: sessions,
	}
	s.setupRoutes(handler)
	return s
}

// setupRoutes registers middleware and the API group.
func (s *Server) setupRoutes(handler *api.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore exposes the store for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
