package bot

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"statarb/internal/config"
	"statarb/internal/models"
	"statarb/pkg/utils"
)

// PositionRef описывает открытую позицию с точки зрения машины состояний
type PositionRef struct {
	Quantity1   float64
	Quantity2   float64
	EntryZScore float64
}

// PairState хранит состояние одной пары между циклами оценки.
// Непустая позиция возможна только в состояниях long_spread и short_spread
type PairState struct {
	State        string
	Position     *PositionRef
	LastSnapshot *models.PairSnapshot
	UpdatedAt    time.Time
}

// SignalEngine — машина состояний торговых сигналов. Владеет состоянием
// всех пар и переводит снимки статистики в торговые сигналы.
//
// Оценка снимка не меняет состояние: переходы применяются отдельным
// вызовом UpdatePosition после подтверждения исполнения
type SignalEngine struct {
	mu       sync.Mutex
	strategy config.StrategyConfig
	risk     *RiskManager
	states   map[string]*PairState
	logger   *utils.Logger
}

// NewSignalEngine создаёт машину сигналов с заданными порогами
func NewSignalEngine(strategy config.StrategyConfig, risk *RiskManager, logger *utils.Logger) *SignalEngine {
	return &SignalEngine{
		strategy: strategy,
		risk:     risk,
		states:   make(map[string]*PairState),
		logger:   logger.WithComponent("signal_engine"),
	}
}

// Evaluate переводит снимок статистики пары в торговый сигнал.
//
// Порядок проверок:
//  1. Нет снимка — hold (недостаточно данных)
//  2. Для плоского состояния: фильтр корреляции, затем пороги входа
//  3. Для открытой позиции: сначала стоп-лосс, затем выход по сходимости.
//     Фильтр корреляции на открытую позицию не действует
func (e *SignalEngine) Evaluate(pair string, snapshot *models.PairSnapshot) *models.TradeSignal {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.stateLocked(pair)
	signal := &models.TradeSignal{
		Pair:      pair,
		Action:    models.SignalHold,
		Timestamp: time.Now().UTC(),
	}

	if snapshot == nil {
		signal.Reason = models.ReasonInsufficientData
		return signal
	}

	state.LastSnapshot = snapshot
	state.UpdatedAt = time.Now().UTC()
	signal.ZScore = snapshot.CurrentZScore

	if state.Position == nil {
		return e.evaluateEntryLocked(state, snapshot, signal)
	}
	return e.evaluateExitLocked(state, snapshot, signal)
}

// evaluateEntryLocked проверяет условия открытия позиции из плоского состояния
func (e *SignalEngine) evaluateEntryLocked(state *PairState, snapshot *models.PairSnapshot, signal *models.TradeSignal) *models.TradeSignal {
	// Фильтр корреляции блокирует только новые входы
	if snapshot.Correlation < e.strategy.CorrelationThreshold {
		signal.Reason = models.ReasonLowCorrelation
		e.logger.Debug("Вход заблокирован низкой корреляцией",
			utils.Pair(signal.Pair),
			zap.Float64("correlation", snapshot.Correlation),
			zap.Float64("threshold", e.strategy.CorrelationThreshold))
		return signal
	}

	// Опциональный фильтр коинтеграции, тоже только для входов
	if e.strategy.RequireCointegration && !snapshot.IsCointegrated {
		signal.Reason = models.ReasonNotCointegrated
		e.logger.Debug("Вход заблокирован отсутствием коинтеграции",
			utils.Pair(signal.Pair),
			zap.Float64("pvalue", snapshot.CointegrationPValue))
		return signal
	}

	z := snapshot.CurrentZScore
	switch {
	case z > e.strategy.ZEntryThreshold:
		// Спред завышен: покупаем asset1, продаём hedge_ratio единиц asset2
		signal.Action = models.SignalSellSpread
		signal.Quantity1 = 1
		signal.Quantity2 = -snapshot.HedgeRatio
		signal.Reason = fmt.Sprintf("zscore %.2f > %.2f", z, e.strategy.ZEntryThreshold)
	case z < -e.strategy.ZEntryThreshold:
		// Спред занижен: продаём asset1, покупаем hedge_ratio единиц asset2
		signal.Action = models.SignalBuySpread
		signal.Quantity1 = -1
		signal.Quantity2 = snapshot.HedgeRatio
		signal.Reason = fmt.Sprintf("zscore %.2f < -%.2f", z, e.strategy.ZEntryThreshold)
	}
	return signal
}

// evaluateExitLocked проверяет условия закрытия открытой позиции.
// Стоп-лосс имеет приоритет над выходом по сходимости
func (e *SignalEngine) evaluateExitLocked(state *PairState, snapshot *models.PairSnapshot, signal *models.TradeSignal) *models.TradeSignal {
	pos := state.Position
	z := snapshot.CurrentZScore

	if e.risk.CheckStopLoss(z, pos.EntryZScore) {
		signal.Action = models.SignalClose
		signal.Quantity1 = -pos.Quantity1
		signal.Quantity2 = -pos.Quantity2
		signal.Reason = models.ReasonStopLoss
		e.logger.Warn("Сработал стоп-лосс",
			utils.Pair(signal.Pair),
			utils.ZScore(z),
			zap.Float64("entry_zscore", pos.EntryZScore))
		return signal
	}

	if math.Abs(z) < e.strategy.ZExitThreshold {
		signal.Action = models.SignalClose
		signal.Quantity1 = -pos.Quantity1
		signal.Quantity2 = -pos.Quantity2
		signal.Reason = models.ReasonConvergence
		return signal
	}

	return signal
}

// UpdatePosition применяет подтверждённый сигнал к состоянию пары.
// Единственный способ изменить позицию в PairState. Вызывается только
// после успешного исполнения обеих ног
func (e *SignalEngine) UpdatePosition(pair string, signal *models.TradeSignal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.stateLocked(pair)

	switch signal.Action {
	case models.SignalSellSpread, models.SignalBuySpread:
		next := models.StateShortSpread
		if signal.Action == models.SignalBuySpread {
			next = models.StateLongSpread
		}
		if !CanTransition(state.State, next) {
			return fmt.Errorf("pair %s: invalid transition %s -> %s", pair, state.State, next)
		}
		state.State = next
		state.Position = &PositionRef{
			Quantity1:   signal.Quantity1,
			Quantity2:   signal.Quantity2,
			EntryZScore: signal.ZScore,
		}
	case models.SignalClose:
		if !CanTransition(state.State, models.StateFlat) {
			return fmt.Errorf("pair %s: invalid transition %s -> %s", pair, state.State, models.StateFlat)
		}
		state.State = models.StateFlat
		state.Position = nil
	default:
		return fmt.Errorf("pair %s: signal %q does not change position", pair, signal.Action)
	}

	state.UpdatedAt = time.Now().UTC()
	e.logger.Info("Состояние пары обновлено",
		utils.Pair(pair),
		utils.State(state.State),
		zap.String("signal", signal.Action))
	return nil
}

// State возвращает копию состояния пары
func (e *SignalEngine) State(pair string) (PairState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[pair]
	if !ok {
		return PairState{}, false
	}
	copied := *state
	if state.Position != nil {
		pos := *state.Position
		copied.Position = &pos
	}
	return copied, true
}

// States возвращает копии состояний всех пар
func (e *SignalEngine) States() map[string]PairState {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]PairState, len(e.states))
	for pair, state := range e.states {
		copied := *state
		if state.Position != nil {
			pos := *state.Position
			copied.Position = &pos
		}
		out[pair] = copied
	}
	return out
}

// stateLocked возвращает состояние пары, создавая его при первом обращении
func (e *SignalEngine) stateLocked(pair string) *PairState {
	state, ok := e.states[pair]
	if !ok {
		state = &PairState{State: models.StateFlat, UpdatedAt: time.Now().UTC()}
		e.states[pair] = state
	}
	return state
}
