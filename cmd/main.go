package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grinder-web-server/config"
	_ "grinder-web-server/docs"
	"grinder-web-server/internal/handler"
	"grinder-web-server/internal/repository"
	"grinder-web-server/internal/security"
	"grinder-web-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Grinder-web-server
// @version 1.0
// @description REST API аутентификации по токенам

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	memberRepo := repository.NewMemberRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(redisClient)

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatalf("Ошибка создания JWT сервиса: %v", err)
	}

	blacklistTTL, err := time.ParseDuration(cfg.TTL.Blacklist)
	if err != nil {
		log.Fatalf("Ошибка парсинга TTL блэклиста: %v", err)
	}

	authService := service.NewAuthenticationService(jwtService, refreshTokenRepo, blacklistRepo, memberRepo, blacklistTTL)

	memberHandler := handler.NewMemberHandler()

	router.Use(security.FilterChain(
		security.LoginFilter(&cfg.Auth, &cfg.Cookie, authService),
		security.TokenCheckFilter(&cfg.Auth, jwtService, blacklistRepo),
		security.RefreshTokenFilter(&cfg.Auth, &cfg.Cookie, authService),
		security.LogoutFilter(&cfg.Auth, &cfg.Cookie, authService),
	))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupMemberRoutes(router, memberHandler)

	runServer(ctx, srv)
}

func setupMemberRoutes(r chi.Router, h *handler.MemberHandler) {
	r.Route("/api/member", func(r chi.Router) {
		r.Get("/me", h.GetCurrentMember)
		r.Head("/me", h.GetCurrentMemberHead)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
