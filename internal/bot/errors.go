package bot

import (
	"errors"
	"fmt"

	"statarb/internal/exchange"
)

// ErrInsufficientData возвращается, когда истории цен недостаточно для
// расчёта статистики пары
var ErrInsufficientData = errors.New("insufficient price data")

// ErrUnknownPair возвращается при обращении к незарегистрированной паре
var ErrUnknownPair = errors.New("unknown pair")

// LegFailureError возвращается, когда одна нога парного ордера исполнена,
// а вторая отклонена. Содержит детали исполненной ноги для ручного
// или автоматического разбора рассинхронизации
type LegFailureError struct {
	Pair      string
	FailedLeg int // 1 или 2
	FilledLeg *exchange.Fill
	Original  error
}

func (e *LegFailureError) Error() string {
	if e.FilledLeg != nil {
		return fmt.Sprintf("pair %s: leg %d failed, filled leg remains open (%s %s %v @ %v): %v",
			e.Pair, e.FailedLeg, e.FilledLeg.Side, e.FilledLeg.Asset, e.FilledLeg.Quantity, e.FilledLeg.Price, e.Original)
	}
	return fmt.Sprintf("pair %s: leg %d failed: %v", e.Pair, e.FailedLeg, e.Original)
}

// Unwrap возвращает оригинальную ошибку для поддержки errors.Is() и errors.As()
func (e *LegFailureError) Unwrap() error {
	return e.Original
}
