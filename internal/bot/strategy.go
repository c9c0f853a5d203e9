package bot

import (
	"fmt"
	"math"

	"statarb/internal/config"
	"statarb/internal/models"
	"statarb/pkg/utils"
)

// Имена стратегий для конфигурации
const (
	StrategyPairsTrading = "pairs_trading"
	StrategyStatArb      = "stat_arb"
)

// Strategy - торговая стратегия поверх машины сигналов.
//
// Конкретный вариант выбирается при конструировании по имени из
// конфигурации, смены стратегии на лету нет
type Strategy interface {
	// Name возвращает имя стратегии
	Name() string

	// ValidateData проверяет пригодность серий цен для анализа
	ValidateData(series1, series2 []float64) error

	// Evaluate переводит снимок статистики в торговый сигнал
	Evaluate(pair string, snapshot *models.PairSnapshot) *models.TradeSignal

	// UpdatePosition применяет подтверждённый сигнал к состоянию пары
	UpdatePosition(pair string, signal *models.TradeSignal) error

	// States возвращает копии состояний всех пар
	States() map[string]PairState
}

// NewStrategy создаёт стратегию по имени из конфигурации.
//
// Поддерживаются:
//   - pairs_trading: вход по z-оценке с фильтром корреляции
//   - stat_arb: то же плюс обязательный фильтр коинтеграции
func NewStrategy(cfg config.StrategyConfig, risk *RiskManager, logger *utils.Logger) (Strategy, error) {
	switch cfg.Name {
	case StrategyPairsTrading, "":
		return NewPairsTradingStrategy(cfg, risk, logger), nil
	case StrategyStatArb:
		return NewStatisticalArbitrageStrategy(cfg, risk, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Name)
	}
}

// baseStrategy содержит общую для вариантов валидацию данных
type baseStrategy struct {
	*SignalEngine
	lookback int
}

// ValidateData проверяет длину серий и корректность цен
func (s *baseStrategy) ValidateData(series1, series2 []float64) error {
	if len(series1) != len(series2) {
		return fmt.Errorf("series length mismatch: %d vs %d", len(series1), len(series2))
	}
	if len(series1) < s.lookback {
		return fmt.Errorf("have %d samples, need %d: %w", len(series1), s.lookback, ErrInsufficientData)
	}
	for i := range series1 {
		if !validPrice(series1[i]) || !validPrice(series2[i]) {
			return fmt.Errorf("invalid price at index %d", i)
		}
	}
	return nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

// PairsTradingStrategy - классическая парная торговля: вход по z-оценке
// спреда с фильтром корреляции, выход по сходимости или стоп-лоссу
type PairsTradingStrategy struct {
	baseStrategy
}

// NewPairsTradingStrategy создаёт стратегию парной торговли
func NewPairsTradingStrategy(cfg config.StrategyConfig, risk *RiskManager, logger *utils.Logger) *PairsTradingStrategy {
	return &PairsTradingStrategy{baseStrategy{
		SignalEngine: NewSignalEngine(cfg, risk, logger),
		lookback:     cfg.LookbackPeriod,
	}}
}

// Name возвращает имя стратегии
func (s *PairsTradingStrategy) Name() string {
	return StrategyPairsTrading
}

// StatisticalArbitrageStrategy - вариант парной торговли, который
// дополнительно требует подтверждённую коинтеграцию для входа
type StatisticalArbitrageStrategy struct {
	baseStrategy
}

// NewStatisticalArbitrageStrategy создаёт стратегию с фильтром коинтеграции
func NewStatisticalArbitrageStrategy(cfg config.StrategyConfig, risk *RiskManager, logger *utils.Logger) *StatisticalArbitrageStrategy {
	cfg.RequireCointegration = true
	return &StatisticalArbitrageStrategy{baseStrategy{
		SignalEngine: NewSignalEngine(cfg, risk, logger),
		lookback:     cfg.LookbackPeriod,
	}}
}

// Name возвращает имя стратегии
func (s *StatisticalArbitrageStrategy) Name() string {
	return StrategyStatArb
}
