package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// validator.go - валидация входных данных
//
// Назначение:
// Проверка корректности активов и торговых пар до того, как они
// попадут в торговый цикл. Ошибки конфигурации должны обнаруживаться
// на старте, а не посреди торговой сессии.

// Символ актива: база и котировка через слэш, например "BTC/USDT".
// Допускаются латинские буквы и цифры, от 2 до 10 знаков в каждой части.
var assetPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}/[A-Z0-9]{2,10}$`)

// NormalizeAsset приводит символ актива к каноническому виду:
// верхний регистр, без окружающих пробелов.
func NormalizeAsset(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidAsset проверяет формат символа актива ("BTC/USDT")
func IsValidAsset(s string) bool {
	return assetPattern.MatchString(NormalizeAsset(s))
}

// ValidateAsset возвращает ошибку с описанием проблемы или nil
func ValidateAsset(s string) error {
	normalized := NormalizeAsset(s)
	if normalized == "" {
		return fmt.Errorf("asset symbol is empty")
	}
	if !assetPattern.MatchString(normalized) {
		return fmt.Errorf("invalid asset symbol %q, expected format BASE/QUOTE", s)
	}
	return nil
}

// ValidatePairSpec проверяет пару активов для парной торговли.
// Оба актива должны быть корректными символами, разными между собой
// и котироваться в одной валюте, иначе спред теряет смысл.
func ValidatePairSpec(asset1, asset2 string) error {
	if err := ValidateAsset(asset1); err != nil {
		return fmt.Errorf("first leg: %w", err)
	}
	if err := ValidateAsset(asset2); err != nil {
		return fmt.Errorf("second leg: %w", err)
	}

	a1 := NormalizeAsset(asset1)
	a2 := NormalizeAsset(asset2)
	if a1 == a2 {
		return fmt.Errorf("pair legs must differ, got %q twice", a1)
	}

	if quote(a1) != quote(a2) {
		return fmt.Errorf("pair legs must share a quote currency: %q vs %q", a1, a2)
	}
	return nil
}

func quote(asset string) string {
	if idx := strings.IndexByte(asset, '/'); idx >= 0 {
		return asset[idx+1:]
	}
	return ""
}
