package server

import (
	"context"
	"net/http"
	"time"

	"fightbook/config"
	"fightbook/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP surface over the betting core. It owns no business
// rules: every handler validates the request shape, calls a service, and
// maps the resulting error kind to a status code.
type Server struct {
	cfg         *config.Config
	users       service.UserService
	combats     service.CombatService
	wagers      service.WagerService
	settlements service.SettlementService
	stats       service.StatsService
	httpServer  *http.Server
}

// New creates a new HTTP server with all routes registered
func New(cfg *config.Config, users service.UserService, combats service.CombatService, wagers service.WagerService, settlements service.SettlementService, stats service.StatsService) *Server {
	s := &Server{
		cfg:         cfg,
		users:       users,
		combats:     combats,
		wagers:      wagers,
		settlements: settlements,
		stats:       stats,
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/register", s.handleRegister)
	router.POST("/login", s.handleLogin)

	router.GET("/combats", s.handleListCombats)
	router.GET("/combats/:id", s.handleGetCombat)
	router.GET("/combats/:id/wagers", s.handleListWagers)
	router.GET("/scoreboard", s.handleScoreboard)
	router.GET("/users/:username/stats", s.handleUserStats)

	authed := router.Group("/")
	authed.Use(s.authMiddleware())
	{
		authed.GET("/balance", s.handleGetBalance)
		authed.POST("/combats", s.handleCreateCombat)
		authed.POST("/combats/:id/wagers", s.handlePlaceWager)
		authed.POST("/combats/:id/proof", s.handleSubmitProof)
		authed.POST("/combats/:id/resolve", s.handleResolveCombat)
		authed.POST("/combats/:id/cancel", s.handleCancelCombat)
	}

	admin := router.Group("/admin")
	admin.Use(s.authMiddleware(), s.adminMiddleware())
	{
		admin.GET("/review", s.handleReviewQueue)
		admin.POST("/combats/:id/resolve", s.handleAdminResolve)
		admin.POST("/combats/:id/cancel", s.handleAdminCancel)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests; it blocks until the server stops
func (s *Server) Start() error {
	log.WithField("addr", s.cfg.ListenAddr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("Request handled")
	}
}
