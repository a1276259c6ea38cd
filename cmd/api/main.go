package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/config"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/handlers"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/middleware"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/repository"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/prefeitura-rio/app-mcmv-rural/docs"
)

// @title           MCMV Rural API
// @version         1.0
// @description     Cadastro de beneficiários do programa Minha Casa Minha Vida Rural. Valida o formulário, grava o cadastro pelo CPF, exporta para planilha e gera a ficha em PDF.

// @contact.name   Prefeitura de Mojuí dos Campos

// @host      localhost:5000
// @BasePath  /

// @tag.name beneficiarios
// @tag.description Cadastro e consulta de beneficiários

// @tag.name health
// @tag.description Health check operations

func main() {
	// Config first: it loads .env, which may carry LOG_LEVEL
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	if err := observability.InitTracer(cfg); err != nil {
		logging.Logger.Error("failed to initialize tracer, continuing without tracing", zap.Error(err))
	}
	defer observability.ShutdownTracer()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	repo, err := repository.Open(startupCtx, cfg, logging.Logger)
	if err != nil {
		logging.Logger.Fatal("failed to open beneficiary store",
			zap.String("backend", cfg.StoreBackend),
			zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Logger.Error("failed to close beneficiary store", zap.Error(err))
		}
	}()

	checks := map[string]handlers.HealthCheckFunc{cfg.StoreBackend: repo.Ping}

	var cache services.BeneficiaryCache
	redisClient, err := config.ConnectRedis(startupCtx, cfg)
	if err != nil {
		logging.Logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		cache = services.NewBeneficiaryCacheService(redisClient, cfg.RedisTTL, componentLogger("cache"))
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	exporter := services.NewExportService(cfg.ExportPath, componentLogger("export"))
	registration := services.NewRegistrationService(
		repo,
		cache,
		exporter,
		services.NewDocumentService(cfg.DocumentDir, cfg.DocumentLocation, componentLogger("document")),
		componentLogger("registration"),
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router,
		handlers.NewBeneficiaryHandlers(logging.Logger, registration),
		handlers.NewHealthHandler(logging.Logger, checks),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logging.Logger.Unwrap()),
	}

	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.StoreBackend),
			zap.Bool("cache", cache != nil),
			zap.String("export", exporter.Path()),
			zap.String("documents", cfg.DocumentDir),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}

func componentLogger(name string) *logging.SafeLogger {
	return logging.Logger.With(zap.String("component", name))
}
