package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	auction "auction-server/internal/auctionService"
	"auction-server/internal/assets"
	"auction-server/internal/config"
	"auction-server/internal/metrics"
	"auction-server/internal/repository"
	"auction-server/internal/server"
	"auction-server/services/auction/handler"
	"auction-server/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"error": err.Error()})
	}
	if err := utils.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		utils.Fatal("failed to configure logger", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg.Store)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.Store.Driver, "error": err.Error()})
	}
	defer func() {
		if err := repo.Close(); err != nil {
			utils.Error("failed to close store", map[string]any{"error": err.Error()})
		}
	}()

	assetStore, err := assets.NewFileStore(cfg.Store.Config)
	if err != nil {
		utils.Fatal("failed to open asset store", map[string]any{"dir": cfg.Store.Basedir, "error": err.Error()})
	}

	metrics.Init()
	auctionSvc := auction.NewAuctionService(repo, assetStore, nil)

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.Listen(server.Options{
		Addr:            cfg.Server.Addr(),
		UDPTimeout:      cfg.Server.UDPTimeout,
		TCPReadTimeout:  cfg.Server.TCPReadTimeout,
		TCPWriteTimeout: cfg.Server.TCPWriteTimeout,
		AdminAddr:       cfg.Server.AdminAddr,
	}, handler.NewProtocolHandler(auctionSvc), server.SetupRouter(auctionSvc))
	if err != nil {
		utils.Fatal("failed to start server", map[string]any{"addr": cfg.Server.Addr(), "error": err.Error()})
	}

	if err := srv.Serve(ctx); err != nil {
		utils.Error("server stopped with error", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("server stopped", nil)
}

// openStore returns the AuctionStore selected by the configured driver
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.AuctionStore, error) {
	if cfg.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return nil, err
		}
		repo, err := repository.NewSQLiteRepo(ctx, cfg.SQLiteConfig)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return repository.NewMemoryRepo(), nil
}
