package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"statarb/internal/api"
	"statarb/internal/bot"
	"statarb/internal/config"
	"statarb/internal/exchange"
	"statarb/internal/repository"
	"statarb/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer logger.Sync()

	logger.Info("Запуск торгового ядра",
		zap.String("strategy", cfg.Strategy.Name),
		zap.Int("pairs", len(cfg.Engine.Pairs)),
		zap.Bool("trading_enabled", cfg.Engine.TradingEnabled),
	)

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Не удалось подключиться к базе данных", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Подключение к базе данных установлено",
		zap.String("dsn", cfg.Database.DSNWithoutPassword()))

	// Инициализация репозиториев
	tradeRepo := repository.NewTradeRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// Источник рыночных данных: внешний HTTP API либо исторические цены из БД
	var data exchange.MarketDataProvider = priceRepo
	if cfg.Engine.PriceSourceURL != "" {
		data = exchange.NewRESTDataProvider(cfg.Engine.PriceSourceURL)
		logger.Info("Используется внешний источник цен",
			zap.String("url", cfg.Engine.PriceSourceURL))
	}

	// Торговый шлюз. Реальное исполнение не подключено,
	// вся торговля идёт через paper-шлюз с симуляцией баланса
	if cfg.Engine.TradingEnabled {
		logger.Warn("TRADING_ENABLED=true, но реальный шлюз не сконфигурирован, используется paper-режим")
	}
	var gateway exchange.Gateway = exchange.NewPaperGateway(data, cfg.Engine.InitialBalance)
	defer gateway.Close()

	// Сборка торгового ядра
	risk := bot.NewRiskManager(cfg.Risk)

	strategy, err := bot.NewStrategy(cfg.Strategy, risk, logger)
	if err != nil {
		logger.Fatal("Не удалось создать стратегию", zap.Error(err))
	}

	analyzer := bot.NewPairAnalyzer(data, cfg.Strategy.LookbackPeriod, cfg.Strategy.CointSignificance, logger)
	executor := bot.NewExecutionCoordinator(gateway, data, risk, logger)
	alerts := bot.NewAlertSink()

	engine := bot.NewEngine(cfg, strategy, analyzer, executor, risk, data, gateway, alerts, tradeRepo, logger)

	// Запуск движка
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := engine.Run(ctx); err != nil {
			logger.Error("Движок завершился с ошибкой", zap.Error(err))
		}
	}()

	// Настройка HTTP API
	deps := &api.Dependencies{
		Engine:  engine,
		Gateway: gateway,
		Risk:    risk,
		Trades:  tradeRepo,
		Logger:  logger,
	}
	router := api.SetupRoutes(deps)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP сервер запущен", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP сервер упал", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка...")

	// Сначала останавливаем торговый цикл, затем API
	engine.Stop()
	cancel()
	select {
	case <-engineDone:
	case <-time.After(30 * time.Second):
		logger.Warn("Движок не остановился за отведённое время")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Принудительная остановка HTTP сервера", zap.Error(err))
	}

	logger.Info("Остановлено")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
