package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MikeMC777/product-catalog/internal/config"
	"github.com/MikeMC777/product-catalog/internal/database"
	"github.com/MikeMC777/product-catalog/internal/health"
	"github.com/MikeMC777/product-catalog/internal/logging"
	"github.com/MikeMC777/product-catalog/internal/product"
)

// @title        Product Catalog API
// @version      1.0
// @description  Create, read, update, delete and filter catalog products.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.Options{Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	cfg.Log()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("product-service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	if cfg.LogMode == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		DSN:      cfg.PostgresDSN,
		MaxConns: cfg.MaxConns,
		Debug:    cfg.LogMode == "development",
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connection successful")

	if cfg.AutoMigrate {
		if err := product.Migrate(db.Gorm); err != nil {
			return err
		}
	}

	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			return errors.Wrap(err, "listen grpc health")
		}
		grpcSrv := health.Serve(lis, db)
		defer grpcSrv.GracefulStop()
		logger.Info("grpc health listening", zap.String("addr", cfg.GRPCHealthAddr))
	}

	srv := &http.Server{
		Addr:              cfg.ProductSvcAddr,
		Handler:           newRouter(product.NewGormRepo(db.Gorm), cfg.PublicBaseURL, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("product-service listening", zap.String("addr", cfg.ProductSvcAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
