// Package server exposes the transaction decoder over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/danmuck/txdecode/internal/auth"
	"github.com/danmuck/txdecode/internal/config"
	"github.com/danmuck/txdecode/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ServiceName = "txdecode"
	Version     = "0.1.0"

	// maxBodyBytes bounds request bodies when max_txn_bytes is unset.
	maxBodyBytes = 4 << 20
)

type Server struct {
	ID       string
	Addr     string
	Appeared time.Time

	cfg    config.DecoderConfig
	auth   auth.Validator
	log    zerolog.Logger
	router *gin.Engine
}

func New(cfg config.DecoderConfig, logger zerolog.Logger) (*Server, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.Requests(ServiceName, logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.Server.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		ID:       ServiceName,
		Addr:     cfg.Server.Addr,
		Appeared: time.Now(),
		cfg:      cfg,
		auth:     auth.Token(cfg.Server.Token),
		log:      logger,
		router:   r,
	}
	s.RegisterRoutes()
	return s, nil
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.Addr).Str("format", s.cfg.Format).Msg("decode service listening")
	return s.router.Run(s.Addr)
}

// requireToken rejects requests whose bearer credential fails validation.
func (s *Server) requireToken(c *gin.Context) {
	if err := s.auth.Validate(auth.Bearer(c.GetHeader("Authorization"))); err != nil {
		s.log.Warn().Str("path", c.Request.URL.Path).Msg("unauthorized request")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Next()
}

func (s *Server) bodyLimit() int64 {
	if s.cfg.MaxTxnBytes > 0 {
		// hex doubles the size; leave room for the JSON envelope
		return int64(s.cfg.MaxTxnBytes)*2 + 4096
	}
	return maxBodyBytes
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
