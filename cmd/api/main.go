package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tourix/internal/adapters/http_server"
	"tourix/internal/adapters/observability"
	"tourix/internal/adapters/rabbit"
	redisad "tourix/internal/adapters/redis"
	"tourix/internal/adapters/stripe"
	"tourix/internal/app"
	"tourix/internal/shared"
	mysqlrepo "tourix/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	publisher := rabbit.NewPublisher(cfg.AMQPURL)
	defer publisher.Close()

	checkout, err := stripe.New(cfg.StripeBase, cfg.StripeKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize checkout client")
	}

	rooms := app.NewRoomService(repo, repo, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, repo, repo, repo, cache, publisher)
	hotels := app.NewHotelService(repo, repo)
	users := app.NewUserService(repo)
	pay := app.NewCheckoutService(repo, repo, checkout, cfg.Currency)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Rooms:    rooms,
		Bookings: bookings,
		Hotels:   hotels,
		Users:    users,
		Checkout: pay,
	}, cfg.JWTSecret)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
