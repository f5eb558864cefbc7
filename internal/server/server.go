// Package server exposes the pack simulator over HTTP.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/session"
)

// Options configures the HTTP API.
type Options struct {
	Store     catalog.Store
	Sessions  *session.Manager
	Log       *slog.Logger
	RateLimit int // requests per minute per IP, 0 disables
}

// Server holds the handler dependencies.
type Server struct {
	store    catalog.Store
	sessions *session.Manager
	log      *slog.Logger
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	s := &Server{store: opts.Store, sessions: opts.Sessions, log: opts.Log}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(opts.Log), rateLimit(opts.RateLimit), anonymousID())

	r.GET("/health", s.health)
	r.GET("/series", s.listSeries)

	g := r.Group("/series/:series")
	g.GET("/cards", s.cards)
	g.POST("/packs", s.openPacks)
	g.POST("/box", s.openBox)
	g.GET("/progress", s.progress)
	g.DELETE("/session", s.reset)

	return r
}
