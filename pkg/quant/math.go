package quant

import (
	"math"
)

// math.go - статистические функции для парного трейдинга
//
// Назначение:
// Чистые функции (pure functions) без побочных эффектов для расчёта
// статистик пары: корреляция, коэффициент хеджирования, спред, z-score.
//
// Функции:
// - Correlation: корреляция Пирсона двух рядов
// - HedgeRatio: OLS коэффициент хеджирования
// - Spread: ряд спреда price2 - hedgeRatio * price1
// - ZScores: z-score ряда (полное окно или скользящее)
// - Returns: простые доходности

// Mean возвращает среднее арифметическое ряда.
//
// Возвращает 0 для пустого ряда.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// StdDev возвращает стандартное отклонение ряда (population, ddof=0).
//
// Возвращает 0 для пустого ряда.
func StdDev(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	mean := Mean(series)
	sumSq := 0.0
	for _, v := range series {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(series)))
}

// Correlation возвращает корреляцию Пирсона двух рядов.
//
// Параметры:
//   - series1: первый временной ряд
//   - series2: второй временной ряд
//
// Возвращает:
//   - Коэффициент корреляции в диапазоне [-1, 1]
//   - 0.0 при разной длине рядов, длине < 2 или нулевой дисперсии
//     (вместо NaN)
//
// Примеры:
//   - Correlation([1,2,3], [2,4,6]) = 1.0
//   - Correlation([1,2,3], [3,2,1]) = -1.0
func Correlation(series1, series2 []float64) float64 {
	if len(series1) != len(series2) || len(series1) < 2 {
		return 0.0
	}

	mean1 := Mean(series1)
	mean2 := Mean(series2)

	var cov, var1, var2 float64
	for i := range series1 {
		d1 := series1[i] - mean1
		d2 := series2[i] - mean2
		cov += d1 * d2
		var1 += d1 * d1
		var2 += d2 * d2
	}

	// Нулевая дисперсия означает константный ряд
	if var1 == 0 || var2 == 0 {
		return 0.0
	}

	corr := cov / math.Sqrt(var1*var2)
	if math.IsNaN(corr) {
		return 0.0
	}
	return corr
}

// HedgeRatio возвращает OLS коэффициент хеджирования.
//
// Регрессия price2 на price1: price2 = intercept + slope * price1.
// Коэффициент хеджирования равен наклону регрессии.
//
// Параметры:
//   - price1: ценовой ряд первого актива (независимая переменная)
//   - price2: ценовой ряд второго актива (зависимая переменная)
//
// Возвращает:
//   - Наклон OLS регрессии
//   - 1.0 при разной длине рядов, длине < 2 или вырожденной регрессии
//
// Примеры:
//   - HedgeRatio([1,2,3,4,5], [2,4,6,8,10]) = 2.0
func HedgeRatio(price1, price2 []float64) float64 {
	if len(price1) != len(price2) || len(price1) < 2 {
		return 1.0
	}

	mean1 := Mean(price1)
	mean2 := Mean(price2)

	var cov, var1 float64
	for i := range price1 {
		d1 := price1[i] - mean1
		cov += d1 * (price2[i] - mean2)
		var1 += d1 * d1
	}

	if var1 == 0 {
		return 1.0
	}

	slope := cov / var1
	if math.IsNaN(slope) {
		return 1.0
	}
	return slope
}

// Spread возвращает ряд спреда пары.
//
// Формула: spread[i] = price2[i] - hedgeRatio * price1[i]
//
// Возвращает nil при разной длине рядов.
func Spread(price1, price2 []float64, hedgeRatio float64) []float64 {
	if len(price1) != len(price2) {
		return nil
	}

	spread := make([]float64, len(price1))
	for i := range price1 {
		spread[i] = price2[i] - hedgeRatio*price1[i]
	}
	return spread
}

// ZScores возвращает z-score ряда.
//
// Режимы:
//   - window <= 0 или window >= len(series): z-score по всему ряду,
//     при нулевом std возвращается нулевой ряд
//   - иначе скользящее окно: первые window элементов равны 0,
//     далее zscores[i] = (series[i] - mean(series[i-window:i])) / std(series[i-window:i]),
//     0 при нулевом std окна
//
// Окно не включает текущую точку: статистики считаются по window
// предшествующим значениям.
func ZScores(series []float64, window int) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	if window <= 0 || window >= len(series) {
		mean := Mean(series)
		std := StdDev(series)

		zscores := make([]float64, len(series))
		if std == 0 {
			return zscores
		}
		for i, v := range series {
			zscores[i] = (v - mean) / std
		}
		return zscores
	}

	zscores := make([]float64, len(series))
	for i := window; i < len(series); i++ {
		windowData := series[i-window : i]
		mean := Mean(windowData)
		std := StdDev(windowData)
		if std == 0 {
			zscores[i] = 0
		} else {
			zscores[i] = (series[i] - mean) / std
		}
	}
	return zscores
}

// CurrentZScore возвращает z-score последней точки ряда относительно
// статистик всего ряда.
//
// Возвращает 0 для пустого ряда или при нулевом std.
func CurrentZScore(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	std := StdDev(series)
	if std == 0 {
		return 0
	}
	return (series[len(series)-1] - Mean(series)) / std
}

// Returns возвращает простые доходности ценового ряда.
//
// Формула: returns[i] = (prices[i+1] - prices[i]) / prices[i]
//
// Возвращает пустой ряд при длине < 2.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		returns[i] = (prices[i+1] - prices[i]) / prices[i]
	}
	return returns
}
