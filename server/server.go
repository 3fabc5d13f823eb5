package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
)

// Server is HTTP frontend of routing service
type Server struct {
	cfg     Config
	store   *Store
	metrics *serviceMetrics
	engine  *gin.Engine
}

// New prepares HTTP handlers over given store
func New(cfg Config, store *Store) *Server {
	srv := &Server{
		cfg:     cfg,
		store:   store,
		metrics: newServiceMetrics(store),
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	engine.GET("/", srv.index)
	engine.POST("/find_route", srv.findRoute)
	// CORS middleware answers preflights carrying Origin; bare OPTIONS lands here
	engine.OPTIONS("/find_route", srv.options)
	engine.GET("/places", srv.places)
	engine.GET("/health", srv.health)
	engine.GET("/metrics", srv.writeMetrics)
	engine.POST("/admin/reload", srv.reload)
	srv.engine = engine
	return srv
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

// requestLogger writes access log through the service logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := time.Now()
		c.Next()
		log.Debugf("server: %s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(st))
	}
}

// Handler returns HTTP handler of the server
func (srv *Server) Handler() http.Handler {
	return srv.engine
}

// Run serves HTTP until ctx is done, then shuts down gracefully
func (srv *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              srv.cfg.Listen,
		Handler:           srv.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Infof("server: listening on %s", srv.cfg.Listen)
		errs <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return errors.Wrap(err, "HTTP server failed")
	case <-ctx.Done():
	}
	log.Infof("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "Can't shutdown HTTP server")
	}
	return nil
}
