package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики торгового ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Alertmanager для уведомлений о проблемах

// ============ Метрики цикла ============

// CyclesTotal - количество завершённых циклов оценки
var CyclesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "cycles_total",
		Help:      "Total number of completed evaluation cycles",
	},
)

// CycleDuration - длительность цикла оценки
var CycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full evaluation cycle in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
)

// PairErrors - ошибки обработки пар (изолированные, цикл продолжается)
var PairErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "pair_errors_total",
		Help:      "Total number of per-pair processing errors",
	},
	[]string{"pair", "kind"}, // kind: insufficient_data, missing_price, exchange_call, leg_failure
)

// ============ Метрики сигналов и сделок ============

// SignalsTotal - сигналы по типам
var SignalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "signals_total",
		Help:      "Total number of generated signals",
	},
	[]string{"pair", "action"}, // action: hold, buy_spread, sell_spread, close
)

// TradesTotal - исполненные парные ордера
var TradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "trades_total",
		Help:      "Total number of executed pair orders",
	},
	[]string{"pair", "result"}, // result: filled, rejected, leg_failure
)

// PnlTotal - суммарный реализованный PnL
var PnlTotal = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "realized_pnl_total",
		Help:      "Total realized PnL in quote currency",
	},
)

// OpenPositions - текущее количество открытых позиций
var OpenPositions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "open_positions",
		Help:      "Current number of open spread positions",
	},
)

// ============ Метрики статистики пар ============

// PairZScore - текущая z-оценка спреда по парам
var PairZScore = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "pair_zscore",
		Help:      "Current spread z-score per pair",
	},
	[]string{"pair"},
)

// PairCorrelation - текущая корреляция по парам
var PairCorrelation = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "pair_correlation",
		Help:      "Current price correlation per pair",
	},
	[]string{"pair"},
)

// PairCointegrated - результат теста коинтеграции (1=да, 0=нет)
var PairCointegrated = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "trading",
		Name:      "pair_cointegrated",
		Help:      "Cointegration test result per pair (1=cointegrated)",
	},
	[]string{"pair"},
)

// ============ Метрики риска ============

// StopLossTriggered - срабатывания стоп-лосса
var StopLossTriggered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "risk",
		Name:      "stop_loss_triggered_total",
		Help:      "Number of stop loss triggers",
	},
	[]string{"pair"},
)

// LegFailures - асимметричные исполнения парных ордеров
var LegFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "risk",
		Name:      "leg_failures_total",
		Help:      "Number of asymmetric pair order fills",
	},
	[]string{"pair"},
)

// DrawdownRatio - текущая просадка от пикового баланса
var DrawdownRatio = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "risk",
		Name:      "drawdown_ratio",
		Help:      "Current drawdown as a fraction of peak equity",
	},
)

// AccountBalance - текущий баланс аккаунта
var AccountBalance = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "risk",
		Name:      "account_balance",
		Help:      "Current account balance in quote currency",
	},
)

// ============ Вспомогательные функции ============

// RecordSignal записывает сгенерированный сигнал
func RecordSignal(pair, action string) {
	SignalsTotal.WithLabelValues(pair, action).Inc()
}

// RecordTrade записывает результат исполнения парного ордера
func RecordTrade(pair, result string) {
	TradesTotal.WithLabelValues(pair, result).Inc()
}

// RecordPairError записывает изолированную ошибку обработки пары
func RecordPairError(pair, kind string) {
	PairErrors.WithLabelValues(pair, kind).Inc()
}

// RecordSnapshot обновляет метрики статистики пары
func RecordSnapshot(pair string, zscore, correlation float64, cointegrated bool) {
	PairZScore.WithLabelValues(pair).Set(zscore)
	PairCorrelation.WithLabelValues(pair).Set(correlation)
	if cointegrated {
		PairCointegrated.WithLabelValues(pair).Set(1)
	} else {
		PairCointegrated.WithLabelValues(pair).Set(0)
	}
}

// UpdateAccountMetrics обновляет баланс и просадку
func UpdateAccountMetrics(balance, drawdown float64) {
	AccountBalance.Set(balance)
	DrawdownRatio.Set(drawdown)
}
