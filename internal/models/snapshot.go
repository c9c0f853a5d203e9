package models

import "time"

// PairSnapshot представляет статистический снимок пары на момент расчёта
//
// Снимок рассчитывается PairAnalyzer'ом по выровненным ценовым рядам
// за lookback окно и является единственным входом для генерации сигналов.
type PairSnapshot struct {
	Pair                string    `json:"pair"`
	Correlation         float64   `json:"correlation"`          // корреляция Пирсона [-1, 1]
	HedgeRatio          float64   `json:"hedge_ratio"`          // OLS коэффициент: price2 на price1
	SpreadMean          float64   `json:"spread_mean"`          // среднее спреда за окно
	SpreadStd           float64   `json:"spread_std"`           // стандартное отклонение спреда
	CurrentSpread       float64   `json:"current_spread"`       // последнее значение спреда
	CurrentZScore       float64   `json:"current_zscore"`       // последний z-score
	IsCointegrated      bool      `json:"is_cointegrated"`      // результат теста Энгла-Грейнджера
	CointegrationPValue float64   `json:"cointegration_pvalue"` // p-value теста
	Samples             int       `json:"samples"`              // длина выровненных рядов
	CalculatedAt        time.Time `json:"calculated_at"`
}
