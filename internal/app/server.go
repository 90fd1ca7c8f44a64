package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coursebook/internal/config"
	"coursebook/internal/httpapi"
	"coursebook/internal/repository"
	"coursebook/internal/service"
	"coursebook/internal/session"
	"coursebook/internal/storage"
	"coursebook/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Config         config.Config
	Store          storage.Store
	CourseService  *service.CourseService
	SessionManager *session.Manager
	Hub            *websocket.Hub
	Router         *gin.Engine
	Logger         *zap.Logger
}

func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	courses := service.New(repository.New(store), logger)
	sessions := session.NewManager(logger)
	hub := websocket.NewHub(sessions, courses, logger)

	return &Server{
		Config:         cfg,
		Store:          store,
		CourseService:  courses,
		SessionManager: sessions,
		Hub:            hub,
		Router:         httpapi.NewRouter(httpapi.RouterConfig{Courses: courses, Hub: hub, Logger: logger}),
		Logger:         logger,
	}, nil
}

// Run serves HTTP and websocket traffic until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.Config.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.Logger.Info("Server is running", zap.String("addr", s.Config.Addr), zap.String("storage", s.Config.Storage.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.Logger.Info("Server stopped")
		return nil
	})
	return g.Wait()
}

func (s *Server) Close() error {
	return s.Store.Close()
}
