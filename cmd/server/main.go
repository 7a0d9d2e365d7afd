package main

import (
	"log"
	"os"
	"time"

	controller "storefront-api/internal/controllers/http"
	"storefront-api/internal/infra"
	mmysql "storefront-api/internal/infra/mysql"
	"storefront-api/internal/infra/rabbitmq"
	mysqlrepo "storefront-api/internal/repository/mysql"
	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	var publisher rabbitmq.PublisherInterface
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		p, err := rabbitmq.NewPublisher(url, "shop.orders")
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	var mailer infra.MailerInterface
	if host := os.Getenv("SMTP_HOST"); host != "" {
		m, err := infra.NewMailer(host, os.Getenv("SMTP_PORT"), os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), os.Getenv("SMTP_FROM"))
		if err != nil {
			log.Fatalf("failed to init mailer: %v", err)
		}
		mailer = m
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	orderService := services.NewOrderService(store, publisher)
	productService := services.NewProductService(store)
	authService := services.NewAuthService(store, mailer, jwtSecret, 7*24*time.Hour, os.Getenv("FRONTEND_URL"))
	cartService := services.NewCartService(store)
	reviewService := services.NewReviewService(store)
	contentService := services.NewContentService(store)
	salesService := services.NewSalesService(store)

	var redisClient *redis.Client
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         host + ":6379",
			DB:           0,
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		orderService.SetRedisClient(redisClient)
		productService.SetRedisClient(redisClient)
	}

	handler := controller.NewHandler(orderService, productService, authService, cartService, reviewService, contentService, salesService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting storefront API on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
