package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	// .env facultatif (dev local); en prod les variables viennent du déploiement
	if err := godotenv.Load(); err != nil {
		log.Infof("no .env file, using environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
		&model.AdminUser{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// Repositories
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	cartRepo := infraRepo.NewCartRedisRepository(redisClient)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// Usecases
	authUC := usecase.NewAuthUsecase(adminRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, couponRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartRepo, couponRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, orderItemRepo, auditRepo)
	adminCouponUC := usecase.NewAdminCouponUsecase(couponRepo, auditRepo)

	// Handlers
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC, couponUC, cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminCoupon:  handler.NewAdminCouponHandler(adminCouponUC),
	}

	if err := server.Start(cfg, h); err != nil {
		log.Fatalf("server: %v", err)
	}
}
