package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"statarb/internal/exchange"
	"statarb/internal/models"
	"statarb/pkg/quant"
	"statarb/pkg/utils"
)

// PairAnalyzer рассчитывает статистику торговых пар по истории цен:
// корреляцию, коэффициент хеджирования, спред, z-оценку и коинтеграцию
type PairAnalyzer struct {
	data         exchange.MarketDataProvider
	lookback     int
	significance float64
	logger       *utils.Logger
}

// NewPairAnalyzer создаёт анализатор пар.
//
// Параметры:
//   - data: источник исторических цен
//   - lookback: размер окна анализа (количество точек)
//   - significance: уровень значимости теста коинтеграции (обычно 0.05)
func NewPairAnalyzer(data exchange.MarketDataProvider, lookback int, significance float64, logger *utils.Logger) *PairAnalyzer {
	return &PairAnalyzer{
		data:         data,
		lookback:     lookback,
		significance: significance,
		logger:       logger.WithComponent("analyzer"),
	}
}

// Analyze строит снимок статистики пары по последним lookback ценам.
//
// Возвращает ErrInsufficientData, если истории меньше окна анализа
func (a *PairAnalyzer) Analyze(ctx context.Context, pair models.PairConfig) (*models.PairSnapshot, error) {
	points1, err := a.data.GetPriceSeries(ctx, pair.Asset1, a.lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s series: %w", pair.Asset1, err)
	}
	points2, err := a.data.GetPriceSeries(ctx, pair.Asset2, a.lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s series: %w", pair.Asset2, err)
	}
	return a.Snapshot(pair, points1, points2)
}

// alignByTimestamp сопоставляет две хронологические серии по меткам
// времени: в результат входят только точки с совпадающей меткой,
// несовпадающие отбрасываются. Пропуск свечи у одного актива не
// сдвигает спред относительно другого
func alignByTimestamp(points1, points2 []models.PricePoint) (series1, series2 []float64) {
	i, j := 0, 0
	for i < len(points1) && j < len(points2) {
		switch {
		case points1[i].Timestamp.Equal(points2[j].Timestamp):
			series1 = append(series1, points1[i].Price)
			series2 = append(series2, points2[j].Price)
			i++
			j++
		case points1[i].Timestamp.Before(points2[j].Timestamp):
			i++
		default:
			j++
		}
	}
	return series1, series2
}

// Snapshot рассчитывает статистику пары по готовым сериям точек.
// Серии сопоставляются по меткам времени, затем обрезаются до окна
// анализа отбрасыванием старых точек
func (a *PairAnalyzer) Snapshot(pair models.PairConfig, points1, points2 []models.PricePoint) (*models.PairSnapshot, error) {
	series1, series2 := alignByTimestamp(points1, points2)

	n := len(series1)
	if n < a.lookback {
		a.logger.Debug("Недостаточно данных для анализа",
			utils.Pair(pair.Name),
			zap.Int("samples", n),
			zap.Int("lookback", a.lookback))
		return nil, fmt.Errorf("pair %s: have %d aligned samples, need %d: %w", pair.Name, n, a.lookback, ErrInsufficientData)
	}
	series1 = series1[n-a.lookback:]
	series2 = series2[n-a.lookback:]
	n = a.lookback

	hedge := quant.HedgeRatio(series1, series2)
	spread := quant.Spread(series1, series2, hedge)
	mean := quant.Mean(spread)
	std := quant.StdDev(spread)

	currentSpread := spread[len(spread)-1]
	zscore := 0.0
	if std > 0 {
		zscore = (currentSpread - mean) / std
	}

	cointegrated, pvalue := quant.TestCointegration(series1, series2, a.significance)

	snapshot := &models.PairSnapshot{
		Pair:                pair.Name,
		Correlation:         quant.Correlation(series1, series2),
		HedgeRatio:          hedge,
		SpreadMean:          mean,
		SpreadStd:           std,
		CurrentSpread:       currentSpread,
		CurrentZScore:       zscore,
		IsCointegrated:      cointegrated,
		CointegrationPValue: pvalue,
		Samples:             n,
		CalculatedAt:        time.Now().UTC(),
	}

	a.logger.Debug("Статистика пары рассчитана",
		utils.Pair(pair.Name),
		utils.ZScore(zscore),
		zap.Float64("correlation", snapshot.Correlation),
		zap.Float64("hedge_ratio", hedge),
		zap.Bool("cointegrated", cointegrated))

	return snapshot, nil
}
