// ABOUTME: JSON API server for UI collaborators
// ABOUTME: Serves evaluations, rankings, the speedrun queue, outcomes and profile settings over gin
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/workspace"
)

type Server struct {
	ws         *workspace.Workspace
	logger     *log.Logger
	queueLimit int
	engine     *gin.Engine
}

// Options tune the HTTP surface.
type Options struct {
	CORSOrigins []string
	QueueLimit  int
}

func NewServer(ws *workspace.Workspace, logger *log.Logger, opts Options) *Server {
	s := &Server{
		ws:         ws,
		logger:     logger,
		queueLimit: opts.QueueLimit,
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("outcome", validOutcome)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	if len(opts.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.GET("/records/:id/evaluation", s.handleEvaluation)
	api.GET("/records/:id/activities", s.handleActivities)
	api.POST("/records/:id/complete", s.handleComplete)
	api.GET("/rank", s.handleRank)
	api.GET("/queue", s.handleQueue)
	api.GET("/profile", s.handleGetProfile)
	api.PUT("/profile", s.handlePutProfile)
	api.POST("/profile/strategy/:name", s.handleApplyStrategy)

	s.engine = engine
	return s
}

func validOutcome(fl validator.FieldLevel) bool {
	_, err := activity.ParseOutcome(fl.Field().String())
	return err == nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
