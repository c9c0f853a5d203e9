package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statarb/internal/api/handlers"
	"statarb/internal/api/middleware"
	"statarb/internal/bot"
	"statarb/internal/exchange"
	"statarb/pkg/utils"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Engine  *bot.Engine
	Gateway exchange.Gateway
	Risk    *bot.RiskManager
	Trades  handlers.TradeSource
	Logger  *utils.Logger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// API только для чтения: торговые решения принимает движок, внешнее
// управление позициями и ордерами не предусмотрено.
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /status - статус движка
//	├── /pairs - состояние машины сигналов по парам
//	├── /positions - открытые позиции
//	├── /positions/closed - закрытые позиции
//	├── /orders - журнал ордеров
//	├── /orders/{id} - ордер по идентификатору
//	├── /trades - история сделок из БД
//	├── /account - сводка по счёту
//	└── /notifications - журнал событий (GET, DELETE)
//
// /health - проверка живости
// /metrics - Prometheus метрики
// /debug/pprof/ - профилирование (за DebugAuth)
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	if deps != nil && deps.Logger != nil {
		router.Use(middleware.Recovery(deps.Logger))
		router.Use(middleware.Logging(deps.Logger))
	}
	router.Use(middleware.CORS)

	api := router.PathPrefix("/api/v1").Subrouter()

	if deps != nil && deps.Engine != nil {
		statusHandler := handlers.NewStatusHandler(deps.Engine)
		api.HandleFunc("/status", statusHandler.GetStatus).Methods("GET")

		pairHandler := handlers.NewPairHandler(deps.Engine.Strategy())
		api.HandleFunc("/pairs", pairHandler.GetPairs).Methods("GET")

		executor := deps.Engine.Executor()
		if executor != nil {
			positionHandler := handlers.NewPositionHandler(executor.Positions())
			api.HandleFunc("/positions", positionHandler.GetOpenPositions).Methods("GET")
			api.HandleFunc("/positions/closed", positionHandler.GetClosedPositions).Methods("GET")

			orderHandler := handlers.NewOrderHandler(executor.Orders())
			api.HandleFunc("/orders", orderHandler.GetOrders).Methods("GET")
			api.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET")

			if deps.Gateway != nil {
				accountHandler := handlers.NewAccountHandler(deps.Gateway, deps.Risk, executor.Positions())
				api.HandleFunc("/account", accountHandler.GetAccount).Methods("GET")
			}
		}

		notificationHandler := handlers.NewNotificationHandler(deps.Engine.Alerts())
		api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
		api.HandleFunc("/notifications", notificationHandler.ClearNotifications).Methods("DELETE")
	}

	if deps != nil && deps.Trades != nil {
		tradeHandler := handlers.NewTradeHandler(deps.Trades)
		api.HandleFunc("/trades", tradeHandler.GetTrades).Methods("GET")
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Профилирование за basic auth
	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.Use(middleware.DebugAuth)
	debug.HandleFunc("", pprof.Index)
	debug.HandleFunc("/", pprof.Index)
	debug.HandleFunc("/cmdline", pprof.Cmdline)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/symbol", pprof.Symbol)
	debug.HandleFunc("/trace", pprof.Trace)
	debug.HandleFunc("/{name}", pprof.Index)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
