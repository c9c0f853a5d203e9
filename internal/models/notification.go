package models

import "time"

// Notification представляет уведомление о событии торгового цикла
type Notification struct {
	ID        int                    `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`           // HIGH_ZSCORE, LOW_CORRELATION, OPEN, CLOSE, SL, ERROR, SECOND_LEG_FAIL, DRAWDOWN
	Severity  string                 `json:"severity"`       // info, warn, error, critical
	Pair      string                 `json:"pair,omitempty"` // пустое для системных событий
	Message   string                 `json:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty"` // дополнительные данные
}

// Типы уведомлений
const (
	NotificationTypeHighZScore     = "HIGH_ZSCORE"     // |z-score| превысил порог входа
	NotificationTypeLowCorrelation = "LOW_CORRELATION" // корреляция упала ниже порога
	NotificationTypeOpen           = "OPEN"            // открыта позиция по спреду
	NotificationTypeClose          = "CLOSE"           // закрыта позиция
	NotificationTypeSL             = "SL"              // срабатывание Stop Loss
	NotificationTypeError          = "ERROR"           // ошибка API/данных
	NotificationTypeSecondLegFail  = "SECOND_LEG_FAIL" // исполнилась только одна нога
	NotificationTypeDrawdown       = "DRAWDOWN"        // просадка превысила лимит
)

// Уровни важности
const (
	SeverityInfo     = "info"
	SeverityWarn     = "warn"
	SeverityError    = "error"
	SeverityCritical = "critical"
)
