package quant

import (
	"math"
	"sort"
)

// cointegration.go - тест коинтеграции Энгла-Грейнджера
//
// Двухшаговая процедура:
// 1. OLS регрессия series2 на series1 (с константой), берём остатки
// 2. Тест Дики-Фуллера на стационарность остатков:
//    delta_e[t] = gamma * e[t-1] + u[t], tau = gamma / se(gamma)
//
// P-value аппроксимируется интерполяцией по таблице критических
// значений МакКиннона для случая двух переменных с константой.

// minCointegrationSamples - минимальная длина ряда для теста
const minCointegrationSamples = 10

// Узлы интерполяции (tau, p-value) для N=2 с константой.
// Опорные точки 1%/5%/10% соответствуют асимптотическим критическим
// значениям МакКиннона: -3.90, -3.34, -3.05.
var mackinnonTable = []struct {
	tau float64
	p   float64
}{
	{-6.00, 0.0001},
	{-4.82, 0.001},
	{-3.90, 0.01},
	{-3.34, 0.05},
	{-3.05, 0.10},
	{-2.76, 0.20},
	{-2.45, 0.30},
	{-2.00, 0.50},
	{-1.50, 0.70},
	{-1.00, 0.85},
	{0.00, 0.95},
	{1.00, 0.99},
}

// TestCointegration выполняет тест коинтеграции Энгла-Грейнджера.
//
// Параметры:
//   - series1: первый ценовой ряд
//   - series2: второй ценовой ряд
//   - significance: уровень значимости (обычно 0.05)
//
// Возвращает:
//   - isCointegrated: true если p-value < significance
//   - pvalue: аппроксимированное p-value теста
//
// Крайние случаи:
//   - Разная длина рядов или длина < 10: (false, 1.0)
//   - Вырожденные остатки (идеальная линейная связь): (true, 0.0)
func TestCointegration(series1, series2 []float64, significance float64) (bool, float64) {
	if len(series1) != len(series2) || len(series1) < minCointegrationSamples {
		return false, 1.0
	}

	residuals := olsResiduals(series1, series2)
	if residuals == nil {
		return false, 1.0
	}

	// Идеальная линейная связь: остатки нулевые
	if StdDev(residuals) < 1e-12 {
		return true, 0.0
	}

	tau, ok := dickeyFullerTau(residuals)
	if !ok {
		return false, 1.0
	}

	pvalue := mackinnonPValue(tau)
	return pvalue < significance, pvalue
}

// olsResiduals возвращает остатки регрессии series2 на series1 с константой
func olsResiduals(series1, series2 []float64) []float64 {
	mean1 := Mean(series1)
	mean2 := Mean(series2)

	var cov, var1 float64
	for i := range series1 {
		d1 := series1[i] - mean1
		cov += d1 * (series2[i] - mean2)
		var1 += d1 * d1
	}
	if var1 == 0 {
		return nil
	}

	slope := cov / var1
	intercept := mean2 - slope*mean1

	residuals := make([]float64, len(series1))
	for i := range series1 {
		residuals[i] = series2[i] - intercept - slope*series1[i]
	}
	return residuals
}

// dickeyFullerTau возвращает tau-статистику теста Дики-Фуллера
// для остатков (регрессия без константы: остатки центрированы)
func dickeyFullerTau(residuals []float64) (float64, bool) {
	n := len(residuals) - 1
	if n < 3 {
		return 0, false
	}

	// Регрессия delta_e[t] на e[t-1]
	var sumXY, sumXX float64
	for t := 1; t < len(residuals); t++ {
		x := residuals[t-1]
		y := residuals[t] - residuals[t-1]
		sumXY += x * y
		sumXX += x * x
	}
	if sumXX == 0 {
		return 0, false
	}

	gamma := sumXY / sumXX

	// Сумма квадратов остатков регрессии
	var rss float64
	for t := 1; t < len(residuals); t++ {
		u := (residuals[t] - residuals[t-1]) - gamma*residuals[t-1]
		rss += u * u
	}

	// Степени свободы: n наблюдений, один параметр
	sigma2 := rss / float64(n-1)
	se := math.Sqrt(sigma2 / sumXX)
	if se == 0 {
		return 0, false
	}

	return gamma / se, true
}

// mackinnonPValue аппроксимирует p-value линейной интерполяцией
// по таблице критических значений
func mackinnonPValue(tau float64) float64 {
	table := mackinnonTable

	if tau <= table[0].tau {
		return table[0].p
	}
	if tau >= table[len(table)-1].tau {
		return table[len(table)-1].p
	}

	// Ищем первый узел с tau >= искомого
	idx := sort.Search(len(table), func(i int) bool {
		return table[i].tau >= tau
	})

	lo := table[idx-1]
	hi := table[idx]

	frac := (tau - lo.tau) / (hi.tau - lo.tau)
	return lo.p + frac*(hi.p-lo.p)
}
