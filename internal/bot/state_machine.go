package bot

import "statarb/internal/models"

// ValidTransitions определяет допустимые переходы между состояниями пары
var ValidTransitions = map[string][]string{
	models.StateFlat:        {models.StateLongSpread, models.StateShortSpread},
	models.StateLongSpread:  {models.StateFlat}, // выход только в flat
	models.StateShortSpread: {models.StateFlat},
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// StateInfo возвращает описание состояния
func StateInfo(s string) string {
	switch s {
	case models.StateFlat:
		return "Позиция отсутствует (ожидание сигнала)"
	case models.StateLongSpread:
		return "Открыта длинная позиция по спреду"
	case models.StateShortSpread:
		return "Открыта короткая позиция по спреду"
	default:
		return "Неизвестное состояние"
	}
}

// HasOpenPosition возвращает true если пара держит позицию
func HasOpenPosition(s string) bool {
	return s == models.StateLongSpread || s == models.StateShortSpread
}
