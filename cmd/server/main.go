package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sauvesaveurs/marketplace-api/internal/config"
	"github.com/sauvesaveurs/marketplace-api/internal/database"
	"github.com/sauvesaveurs/marketplace-api/internal/handler"
	"github.com/sauvesaveurs/marketplace-api/internal/logger"
	"github.com/sauvesaveurs/marketplace-api/internal/queue"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
	"github.com/sauvesaveurs/marketplace-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; caching and rate limiting degrade

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	shops := repository.NewShopRepo(db)
	bags := repository.NewBagRepo(db)
	reservations := repository.NewReservationRepo(db)
	notifications := repository.NewNotificationRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, profiles, notifications)
	profileH := handler.NewProfileHandler(cfg, users, profiles, tokens)
	notifH := handler.NewNotificationHandler(notifications)
	browseH := handler.NewPublicBrowseHandler(shops, bags)
	favH := handler.NewFavoriteHandler(favorites, bags)
	clientResH := handler.NewClientReservationHandler(db, reservations, bags, shops, notifications)
	empShopH := handler.NewEmployeeShopHandler(shops)
	empBagH := handler.NewEmployeeBagHandler(bags, shops)
	empResH := handler.NewEmployeeReservationHandler(db, reservations, bags, notifications)
	adminH := handler.NewAdminShopHandler(cfg.AdminToken, shops)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, profileH, notifH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, rdb)
	router.RegisterClient(e, clientResH, favH, cfg.JWTSecret)
	router.RegisterEmployee(e, empShopH, empBagH, empResH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH)

	go func() {
		if err := queue.StartReservationConsumer(log); err != nil {
			log.Warn("reservation consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
