// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cardmax/internal/auth"
	"cardmax/internal/classifier"
	"cardmax/internal/config"
	"cardmax/internal/handler"
	"cardmax/internal/middleware"
	"cardmax/internal/rewards"
	"cardmax/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	pool, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		slog.Error("Не удалось подключиться к БД", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// БД может подниматься дольше сервиса — пингуем с ретраями
	backoff := retry.WithMaxRetries(5, retry.NewConstant(2*time.Second))
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("Ping БД не прошёл, повторяем", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("Ping БД не удался", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Подключились к PostgreSQL")

	store := postgres.NewStorage(pool)

	// Словарь классификатора: файл или встроенный дефолт
	vocab := classifier.Default()
	if cfg.CategoriesFile != "" {
		vocab, err = classifier.LoadFile(cfg.CategoriesFile)
		if err != nil {
			slog.Error("Не удалось загрузить словарь категорий", "error", err, "path", cfg.CategoriesFile)
			os.Exit(1)
		}
		slog.Info("Словарь категорий загружен", "path", cfg.CategoriesFile)
	}
	engine := rewards.NewEngine(classifier.New(vocab))

	// JWT
	tokenService := auth.NewTokenService(cfg)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(store, tokenService)
	cardsHandler := handler.NewCardsHandler(store, engine)
	txHandler := handler.NewTransactionsHandler(store, engine)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Роуты
	authorized := router.Group("/")
	authorized.Use(authMiddleware.RequireAuth())
	{
		authorized.GET("/cards", cardsHandler.ListCards)
		authorized.POST("/cards/recommend", cardsHandler.Recommend)
		authorized.GET("/wallet/cards", cardsHandler.GetWallet)
		authorized.POST("/wallet/cards", cardsHandler.AddToWallet)
		authorized.DELETE("/wallet/cards/:cardId", cardsHandler.RemoveFromWallet)
		authorized.GET("/transactions", txHandler.List)
		authorized.POST("/transactions", txHandler.Create)
	}

	slog.Info("🚀 Сервер запущен", "port", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
	}
}
