package main

import (
	"log"
	"net/http"

	"pulperia-be/internal/config"
	"pulperia-be/internal/db"
	"pulperia-be/internal/docstore"
	"pulperia-be/internal/httpx"
	"pulperia-be/internal/identity"
	"pulperia-be/internal/logger"
	"pulperia-be/internal/notification"
	"pulperia-be/internal/order"
	"pulperia-be/internal/pulperia"
	"pulperia-be/internal/realtime"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	store := docstore.NewMongo(database)

	pulperiaRepo := pulperia.NewRepository(store)
	orderRepo := order.NewRepository(store)

	registry := realtime.NewRegistry()
	broadcaster := notification.NewBroadcaster(pulperiaRepo, registry)

	orderSvc := order.NewService(orderRepo, pulperiaRepo, broadcaster)
	ledger := notification.NewLedger(store)
	feed := notification.NewFeed(orderRepo, pulperiaRepo, ledger)

	oracle := identity.NewOracle(store, []byte(cfg.SecretKey))
	channels := realtime.NewHandler(registry, oracle)

	router := httpx.NewRouter(oracle, orderSvc, feed, ledger, channels)

	log.Printf("🚀 Server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
