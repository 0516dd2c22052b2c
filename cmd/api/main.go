package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Guruganeshkannan/Afterlife/internal/ai"
	"github.com/Guruganeshkannan/Afterlife/internal/auth"
	"github.com/Guruganeshkannan/Afterlife/internal/config"
	dbpkg "github.com/Guruganeshkannan/Afterlife/internal/db"
	httpserver "github.com/Guruganeshkannan/Afterlife/internal/http"
	"github.com/Guruganeshkannan/Afterlife/internal/http/handler"
	"github.com/Guruganeshkannan/Afterlife/internal/mail"
	"github.com/Guruganeshkannan/Afterlife/internal/repository/postgres"
	"github.com/Guruganeshkannan/Afterlife/internal/scheduler"
	"github.com/Guruganeshkannan/Afterlife/internal/service"
	"github.com/Guruganeshkannan/Afterlife/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Auth.SecretKey == "" {
		log.Fatal("SECRET_KEY environment variable must be set")
	}
	if cfg.Mail.Host == "" {
		log.Fatal("MAIL_SERVER environment variable must be set")
	}

	database, err := dbpkg.Connect(cfg.Postgres)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close()

	if err := dbpkg.RunMigrations(ctx, database, migrations.FS); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	messageRepo := postgres.NewMessageRepository(database, log.New(os.Stdout, "message-repo ", log.LstdFlags))
	userRepo := postgres.NewUserRepository(database)

	sender := mail.NewSMTPSender(cfg.Mail)
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenExpiry)

	var generator ai.ProfileGenerator
	if cfg.AI.APIKey != "" {
		generator = ai.NewChatGenerator(cfg.AI)
	}

	deliveryService := service.NewDeliveryService(messageRepo, sender, redisClient, service.DeliveryServiceOptions{
		SendNotificationEmails: cfg.Scheduler.SendNotificationEmails,
		Timezone:               cfg.Scheduler.Timezone,
		Logger:                 log.New(os.Stdout, "delivery ", log.LstdFlags),
	})
	messageService := service.NewMessageService(messageRepo, sender, service.MessageServiceOptions{
		SendNotificationEmails: cfg.Scheduler.SendNotificationEmails,
		Timezone:               cfg.Scheduler.Timezone,
	})
	userService := service.NewUserService(userRepo, tokens, generator)

	sched := scheduler.New(deliveryService, log.New(os.Stdout, "scheduler ", log.LstdFlags))

	if cfg.Scheduler.Enabled {
		appCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := sched.Start(appCtx); err != nil {
			log.Fatalf("start scheduler: %v", err)
		}
	} else {
		log.Println("message scheduler is disabled")
	}

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:    handler.NewAuthHandler(userService),
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(messageService),
		Control: handler.NewControlHandler(sched),
	}, tokens)

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := sched.Stop(); err != nil && err != scheduler.ErrNotRunning {
		log.Printf("scheduler stop error: %v", err)
	}
}
