package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"statarb/internal/models"
)

// maxStoredAlerts ограничивает размер журнала событий в памяти
const maxStoredAlerts = 1000

// AlertSink собирает структурированные события торгового цикла:
// превышение z-оценки, падение корреляции, открытие/закрытие позиций,
// стоп-лоссы, ошибки исполнения. Хранит последние maxStoredAlerts
// событий в памяти, новые вытесняют старые.
//
// Sink накапливает события как данные и раздаёт их подписчикам,
// доставкой во внешние каналы не занимается
type AlertSink struct {
	mu     sync.Mutex
	alerts []models.Notification
	subs   []chan models.Notification
	nextID int
}

// NewAlertSink создает пустой журнал событий
func NewAlertSink() *AlertSink {
	return &AlertSink{nextID: 1}
}

// Subscribe возвращает канал, в который будут приходить новые события.
// Отправка неблокирующая: если подписчик не успевает читать,
// события для него молча отбрасываются
func (s *AlertSink) Subscribe(buffer int) <-chan models.Notification {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan models.Notification, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, ch)
	return ch
}

// Publish добавляет событие в журнал и рассылает подписчикам
func (s *AlertSink) Publish(notif models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notif.ID = s.nextID
	s.nextID++
	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now().UTC()
	}

	s.alerts = append(s.alerts, notif)
	if len(s.alerts) > maxStoredAlerts {
		s.alerts = s.alerts[len(s.alerts)-maxStoredAlerts:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- notif:
		default:
		}
	}
}

// Recent возвращает последние события, новые первыми.
//
// Параметры:
//   - types: фильтр по типам (пустой список — все типы)
//   - limit: максимум записей (по умолчанию 100, не более 500)
func (s *AlertSink) Recent(types []string, limit int) []models.Notification {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		normalized := strings.ToUpper(strings.TrimSpace(t))
		if normalized != "" {
			wanted[normalized] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, 0, limit)
	for i := len(s.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		if len(wanted) > 0 && !wanted[s.alerts[i].Type] {
			continue
		}
		out = append(out, s.alerts[i])
	}
	return out
}

// Count возвращает количество событий в журнале
func (s *AlertSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// Clear очищает журнал событий
func (s *AlertSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
}

// ============================================================
// Вспомогательные конструкторы событий
// ============================================================

// HighZScore фиксирует превышение порога входа z-оценкой
func (s *AlertSink) HighZScore(pair string, zscore, threshold float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeHighZScore,
		Severity: models.SeverityInfo,
		Pair:     pair,
		Message:  fmt.Sprintf("z-score %.2f for %s exceeds entry threshold %.2f", zscore, pair, threshold),
		Meta:     map[string]interface{}{"zscore": zscore, "threshold": threshold},
	})
}

// LowCorrelation фиксирует падение корреляции ниже порога
func (s *AlertSink) LowCorrelation(pair string, correlation, threshold float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeLowCorrelation,
		Severity: models.SeverityWarn,
		Pair:     pair,
		Message:  fmt.Sprintf("correlation %.2f for %s below threshold %.2f", correlation, pair, threshold),
		Meta:     map[string]interface{}{"correlation": correlation, "threshold": threshold},
	})
}

// PositionOpened фиксирует открытие позиции по спреду
func (s *AlertSink) PositionOpened(pair, action string, zscore float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeOpen,
		Severity: models.SeverityInfo,
		Pair:     pair,
		Message:  fmt.Sprintf("opened %s for %s at z-score %.2f", action, pair, zscore),
		Meta:     map[string]interface{}{"action": action, "zscore": zscore},
	})
}

// PositionClosed фиксирует закрытие позиции
func (s *AlertSink) PositionClosed(pair, reason string, pnl float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeClose,
		Severity: models.SeverityInfo,
		Pair:     pair,
		Message:  fmt.Sprintf("closed position for %s (%s), pnl %.2f", pair, reason, pnl),
		Meta:     map[string]interface{}{"reason": reason, "pnl": pnl},
	})
}

// StopLoss фиксирует срабатывание стоп-лосса
func (s *AlertSink) StopLoss(pair string, zscore, entryZScore float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeSL,
		Severity: models.SeverityWarn,
		Pair:     pair,
		Message:  fmt.Sprintf("stop loss triggered for %s: z-score %.2f (entry %.2f)", pair, zscore, entryZScore),
		Meta:     map[string]interface{}{"zscore": zscore, "entry_zscore": entryZScore},
	})
}

// LegFailure фиксирует асимметричное исполнение парного ордера.
// Критическое событие: осталась незахеджированная нога
func (s *AlertSink) LegFailure(pair string, legErr *LegFailureError) {
	meta := map[string]interface{}{"failed_leg": legErr.FailedLeg}
	if legErr.FilledLeg != nil {
		meta["filled_asset"] = legErr.FilledLeg.Asset
		meta["filled_side"] = legErr.FilledLeg.Side
		meta["filled_qty"] = legErr.FilledLeg.Quantity
		meta["filled_price"] = legErr.FilledLeg.Price
	}
	s.Publish(models.Notification{
		Type:     models.NotificationTypeSecondLegFail,
		Severity: models.SeverityCritical,
		Pair:     pair,
		Message:  legErr.Error(),
		Meta:     meta,
	})
}

// Drawdown фиксирует превышение допустимой просадки
func (s *AlertSink) Drawdown(ratio, limit float64) {
	s.Publish(models.Notification{
		Type:     models.NotificationTypeDrawdown,
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("drawdown %.1f%% exceeds limit %.1f%%", ratio*100, limit*100),
		Meta:     map[string]interface{}{"drawdown": ratio, "limit": limit},
	})
}

// SystemError фиксирует ошибку данных или исполнения
func (s *AlertSink) SystemError(pair string, err error) {
	if err == nil {
		return
	}
	s.Publish(models.Notification{
		Type:     models.NotificationTypeError,
		Severity: models.SeverityError,
		Pair:     pair,
		Message:  err.Error(),
		Meta:     map[string]interface{}{"error": err.Error()},
	})
}
