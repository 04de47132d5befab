package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	Engine *gin.Engine
	Config *config.Config
	Log    *logrus.Logger
	store  *repository.Store
}

func Init(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.StorageDriver).Info("connected to storage")

	return &Server{
		Engine: NewEngine(cfg, log, store, metrics.New()),
		Config: cfg,
		Log:    log,
		store:  store,
	}, nil
}

// NewEngine wires services, handlers and middleware over store.
func NewEngine(cfg *config.Config, log *logrus.Logger, store *repository.Store, m *metrics.Metrics) *gin.Engine {
	taskService := service.NewTaskService(store.Tasks, store.Users, store.Transactor, log, m)
	userService := service.NewUserService(store.Users, store.Tasks, log)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(store.Ping)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		m.Middleware(),
		middleware.Recovery(log),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.ErrorHandler(log),
	)
	r.NoRoute(middleware.NotFound)

	r.GET("/healthz", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	docs.SwaggerInfo.Host = ""
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)

		users := api.Group("/users")
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.PUT("/:id", userHandler.Edit)
		users.DELETE("/:id", userHandler.Delete)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Infof("server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	s.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := s.store.Close(ctx); err != nil {
		s.Log.WithError(err).Warn("closing storage")
	}

	s.Log.Info("server exited properly")
	return nil
}
