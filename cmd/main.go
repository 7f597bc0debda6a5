package main

import (
	"context"
	"os"
	"time"

	auctionapp "github.com/bidworks/gavel/internal/auction/application"
	auctionhttp "github.com/bidworks/gavel/internal/auction/infra/http"
	auctionpg "github.com/bidworks/gavel/internal/auction/infra/repository/postgres"
	auctionws "github.com/bidworks/gavel/internal/auction/infra/websocket"
	orderapp "github.com/bidworks/gavel/internal/order/application"
	orderhttp "github.com/bidworks/gavel/internal/order/infra/http"
	orderpg "github.com/bidworks/gavel/internal/order/infra/repository/postgres"
	"github.com/bidworks/gavel/internal/shared/db"
	"github.com/bidworks/gavel/internal/shared/db/migrations"
	"github.com/bidworks/gavel/internal/shared/httpserver"
	"github.com/bidworks/gavel/internal/shared/logger"
	"github.com/bidworks/gavel/internal/shared/websocket"
	userpg "github.com/bidworks/gavel/internal/user/infra/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting gavel server...")

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.GetPostgresDBPool(ctx)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// repositories
	auctionRepo := auctionpg.NewAuctionRepository(pool)
	bidRepo := auctionpg.NewBidRepository(pool)
	ceilingRepo := auctionpg.NewProxyCeilingRepository(pool)
	gateRepo := auctionpg.NewBidGateRepository(pool)
	userRepo := userpg.NewUserRepository(pool)
	orderRepo := orderpg.NewOrderRepository(pool)
	ratingRepo := orderpg.NewRatingRepository(pool)

	// auction module
	placeBidUC := auctionapp.NewPlaceBidUseCase(auctionRepo, bidRepo, ceilingRepo, gateRepo, pool)
	ceilingUC := auctionapp.NewProxyCeilingUseCase(auctionRepo, ceilingRepo)
	gateUC := auctionapp.NewBidGateUseCase(auctionRepo, gateRepo)
	stateUC := auctionapp.NewGetAuctionStateUseCase(auctionRepo, bidRepo)
	auctionService := auctionapp.NewAuctionService(placeBidUC, ceilingUC, gateUC, stateUC, bidRepo)

	// order module
	fulfillmentUC := orderapp.NewFulfillmentUseCase(orderRepo, ratingRepo, userRepo, auctionRepo, bidRepo, pool)
	orderService := orderapp.NewOrderService(fulfillmentUC, orderRepo)
	go fulfillmentUC.RunSweeper(ctx, time.Minute)

	// websocket hub for live auction rooms
	hub := websocket.NewHub()
	go hub.Run(ctx)

	wsHandler := auctionws.NewAuctionWSHandler(auctionService, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer()
	auctionhttp.NewAuctionHandler(auctionService, wsHandler, hub).RegisterRoutes(server.App())
	orderhttp.NewOrderHandler(orderService).RegisterRoutes(server.App())

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":9000"
	}
	if err := server.Start(addr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
