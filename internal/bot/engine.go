package bot

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"statarb/internal/config"
	"statarb/internal/exchange"
	"statarb/internal/models"
	"statarb/pkg/ratelimit"
	"statarb/pkg/retry"
	"statarb/pkg/utils"
)

// TradeStore сохраняет завершённые сделки в долговременное хранилище.
// Реализуется репозиторием, для движка хранилище опционально
type TradeStore interface {
	SaveTrade(trade *models.TradeRecord) error
}

// Engine - главный цикл торгового ядра.
//
// Модель исполнения: синхронный polling с фиксированным интервалом.
// Пары внутри цикла обрабатываются строго последовательно, журналы
// ордеров и позиций мутируются только потоком цикла. Единственная
// разрешённая конкурентность — fan-out/fan-in загрузка истории цен
// перед принятием решений (read-only вызовы, без мутаций состояния).
//
// Ошибка обработки одной пары не прерывает цикл: она фиксируется
// в метриках и журнале событий, цикл переходит к следующей паре
type Engine struct {
	cfg      *config.Config
	strategy Strategy
	analyzer *PairAnalyzer
	executor *ExecutionCoordinator
	risk     *RiskManager
	data     exchange.MarketDataProvider
	gateway  exchange.Gateway
	alerts   *AlertSink
	trades   TradeStore
	limiter  *ratelimit.RateLimiter
	logger   *utils.Logger

	shutdown chan struct{}
	stopOnce sync.Once

	mu         sync.Mutex
	peakEquity float64
	lastCycle  time.Time
}

// NewEngine собирает торговый движок из компонентов.
//
// trades может быть nil: тогда сделки не персистятся
func NewEngine(
	cfg *config.Config,
	strategy Strategy,
	analyzer *PairAnalyzer,
	executor *ExecutionCoordinator,
	risk *RiskManager,
	data exchange.MarketDataProvider,
	gateway exchange.Gateway,
	alerts *AlertSink,
	trades TradeStore,
	logger *utils.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		strategy: strategy,
		analyzer: analyzer,
		executor: executor,
		risk:     risk,
		data:     data,
		gateway:  gateway,
		alerts:   alerts,
		trades:   trades,
		limiter:  ratelimit.NewRateLimiter(cfg.Engine.FetchRate, cfg.Engine.FetchBurst),
		logger:   logger.WithComponent("engine"),
		shutdown: make(chan struct{}),
	}
}

// Alerts возвращает журнал событий
func (e *Engine) Alerts() *AlertSink {
	return e.alerts
}

// Executor возвращает координатор исполнения
func (e *Engine) Executor() *ExecutionCoordinator {
	return e.executor
}

// Strategy возвращает активную стратегию
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// LastCycle возвращает время завершения последнего цикла
func (e *Engine) LastCycle() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCycle
}

// Run запускает цикл оценки и блокируется до остановки.
//
// Первый цикл выполняется сразу, далее по интервалу из конфигурации
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Торговый движок запущен",
		zap.String("strategy", e.strategy.Name()),
		zap.Int("pairs", len(e.cfg.Engine.Pairs)),
		zap.Duration("interval", e.cfg.Engine.UpdateInterval),
		zap.Bool("trading_enabled", e.cfg.Engine.TradingEnabled))

	ticker := time.NewTicker(e.cfg.Engine.UpdateInterval)
	defer ticker.Stop()

	e.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Торговый движок остановлен", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-e.shutdown:
			e.logger.Info("Торговый движок остановлен")
			return nil
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

// Stop останавливает цикл. Безопасно вызывать многократно
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.shutdown) })
}

// runCycle выполняет один цикл оценки: загрузка истории, анализ,
// сигналы, исполнение, контроль просадки
func (e *Engine) runCycle(ctx context.Context) {
	start := time.Now()

	series := e.fetchAllSeries(ctx)

	for _, spec := range e.cfg.Engine.Pairs {
		pair := models.PairConfig{
			Name:   models.PairName(spec.Asset1, spec.Asset2),
			Asset1: spec.Asset1,
			Asset2: spec.Asset2,
		}
		if err := e.processPair(ctx, pair, series); err != nil {
			e.logger.Warn("Ошибка обработки пары",
				utils.Pair(pair.Name),
				zap.Error(err))
		}
	}

	e.checkDrawdown(ctx)

	CyclesTotal.Inc()
	CycleDuration.Observe(time.Since(start).Seconds())
	e.mu.Lock()
	e.lastCycle = time.Now().UTC()
	e.mu.Unlock()
}

// fetchAllSeries параллельно загружает историю цен всех активов.
// Запросы ограничены token bucket и повторяются при сетевых сбоях.
// Отсутствие данных по активу не фатально: пара будет пропущена
func (e *Engine) fetchAllSeries(ctx context.Context) map[string][]models.PricePoint {
	assets := make([]string, 0, len(e.cfg.Engine.Pairs)*2)
	seen := make(map[string]bool)
	for _, spec := range e.cfg.Engine.Pairs {
		for _, asset := range []string{spec.Asset1, spec.Asset2} {
			if !seen[asset] {
				seen[asset] = true
				assets = append(assets, asset)
			}
		}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		series = make(map[string][]models.PricePoint, len(assets))
	)

	for _, asset := range assets {
		wg.Add(1)
		go func(asset string) {
			defer wg.Done()

			if err := e.limiter.Wait(ctx); err != nil {
				return
			}

			fetchCfg := retry.NetworkConfig()
			fetchCfg.RetryIf = retry.RetryIfNotContext
			points, err := retry.DoWithResult(ctx, func() ([]models.PricePoint, error) {
				return e.data.GetPriceSeries(ctx, asset, e.cfg.Strategy.LookbackPeriod)
			}, fetchCfg)
			if err != nil {
				e.logger.Warn("Не удалось загрузить историю цен",
					utils.Asset(asset),
					zap.Error(err))
				return
			}

			mu.Lock()
			series[asset] = points
			mu.Unlock()
		}(asset)
	}

	wg.Wait()
	return series
}

// processPair обрабатывает одну пару: анализ, сигнал, исполнение
func (e *Engine) processPair(ctx context.Context, pair models.PairConfig, series map[string][]models.PricePoint) error {
	snapshot, err := e.analyzer.Snapshot(pair, series[pair.Asset1], series[pair.Asset2])
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			RecordPairError(pair.Name, "insufficient_data")
			// Недостаток данных означает hold без смены состояния
			e.strategy.Evaluate(pair.Name, nil)
			return nil
		}
		RecordPairError(pair.Name, "exchange_call")
		e.alerts.SystemError(pair.Name, err)
		return err
	}

	RecordSnapshot(pair.Name, snapshot.CurrentZScore, snapshot.Correlation, snapshot.IsCointegrated)

	if math.Abs(snapshot.CurrentZScore) > e.cfg.Strategy.ZEntryThreshold {
		e.alerts.HighZScore(pair.Name, snapshot.CurrentZScore, e.cfg.Strategy.ZEntryThreshold)
	}
	if snapshot.Correlation < e.cfg.Strategy.CorrelationThreshold {
		e.alerts.LowCorrelation(pair.Name, snapshot.Correlation, e.cfg.Strategy.CorrelationThreshold)
	}

	signal := e.strategy.Evaluate(pair.Name, snapshot)
	RecordSignal(pair.Name, signal.Action)
	if !signal.IsActionable() {
		return nil
	}

	order, err := e.executor.Execute(ctx, pair, signal)
	if err != nil {
		return e.handleExecutionError(pair, signal, err)
	}
	if order == nil {
		return nil
	}

	RecordTrade(pair.Name, "filled")
	if err := e.strategy.UpdatePosition(pair.Name, signal); err != nil {
		return err
	}

	if signal.IsEntry() {
		e.alerts.PositionOpened(pair.Name, signal.Action, signal.ZScore)
	} else {
		e.finishClose(pair, signal)
	}

	OpenPositions.Set(float64(len(e.executor.Positions().OpenPositions())))
	PnlTotal.Set(e.executor.Positions().TotalRealizedPnl())
	return nil
}

// handleExecutionError классифицирует ошибку исполнения и фиксирует её.
// Состояние пары при любой ошибке исполнения не меняется
func (e *Engine) handleExecutionError(pair models.PairConfig, signal *models.TradeSignal, err error) error {
	var legErr *LegFailureError
	var missing *exchange.MissingPriceError

	switch {
	case errors.As(err, &legErr):
		RecordTrade(pair.Name, "leg_failure")
		RecordPairError(pair.Name, "leg_failure")
		LegFailures.WithLabelValues(pair.Name).Inc()
		e.alerts.LegFailure(pair.Name, legErr)
		e.logger.Error("Асимметричное исполнение парного ордера",
			utils.Pair(pair.Name),
			zap.Int("failed_leg", legErr.FailedLeg),
			zap.Error(err))
	case errors.As(err, &missing):
		RecordPairError(pair.Name, "missing_price")
		e.alerts.SystemError(pair.Name, err)
	default:
		RecordTrade(pair.Name, "rejected")
		RecordPairError(pair.Name, "exchange_call")
		e.alerts.SystemError(pair.Name, err)
	}
	return err
}

// finishClose фиксирует закрытие позиции: события, метрики, персистенция
func (e *Engine) finishClose(pair models.PairConfig, signal *models.TradeSignal) {
	closed := e.executor.Positions().ClosedPositions(1)
	if len(closed) == 0 || closed[0].Pair != pair.Name {
		return
	}
	position := closed[0]

	e.alerts.PositionClosed(pair.Name, signal.Reason, position.RealizedPnl)
	if signal.Reason == models.ReasonStopLoss {
		StopLossTriggered.WithLabelValues(pair.Name).Inc()
		e.alerts.StopLoss(pair.Name, signal.ZScore, position.EntryZScore)
	}

	if e.trades == nil {
		return
	}
	record := &models.TradeRecord{
		Pair:        position.Pair,
		Quantity1:   position.Quantity1,
		Quantity2:   position.Quantity2,
		EntryPrice1: position.EntryPrice1,
		EntryPrice2: position.EntryPrice2,
		ExitPrice1:  position.ExitPrice1,
		ExitPrice2:  position.ExitPrice2,
		EntryZScore: position.EntryZScore,
		Pnl:         position.RealizedPnl,
		Reason:      signal.Reason,
		OpenedAt:    position.OpenedAt,
		ClosedAt:    time.Now().UTC(),
	}
	if position.ClosedAt != nil {
		record.ClosedAt = *position.ClosedAt
	}
	if err := e.trades.SaveTrade(record); err != nil {
		e.logger.Error("Не удалось сохранить сделку",
			utils.Pair(pair.Name),
			zap.Error(err))
	}
}

// checkDrawdown отслеживает пиковый баланс и превышение просадки.
// Проверка консультативная: торговля не останавливается автоматически
func (e *Engine) checkDrawdown(ctx context.Context) {
	balance, err := e.gateway.GetBalance(ctx)
	if err != nil {
		e.logger.Warn("Не удалось получить баланс", zap.Error(err))
		return
	}

	e.mu.Lock()
	if balance > e.peakEquity {
		e.peakEquity = balance
	}
	peak := e.peakEquity
	e.mu.Unlock()

	ratio := e.risk.Drawdown(peak, balance)
	UpdateAccountMetrics(balance, ratio)

	if e.risk.CheckMaxDrawdown(peak, balance) {
		e.alerts.Drawdown(ratio, e.cfg.Risk.MaxDrawdown)
		e.logger.Warn("Просадка превысила лимит",
			zap.Float64("drawdown", ratio),
			zap.Float64("limit", e.cfg.Risk.MaxDrawdown),
			zap.Float64("balance", balance),
			zap.Float64("peak", peak))
	}
}
