package repository

import (
	"database/sql"
	"errors"
	"time"

	"statarb/internal/models"
)

// Ошибки репозитория сделок
var (
	ErrTradeNotFound = errors.New("trade not found")
)

// TradeRepository - работа с таблицей trades (завершённые сделки по спреду)
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository создает новый экземпляр репозитория
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create создает запись о завершённой сделке
func (r *TradeRepository) Create(trade *models.TradeRecord) error {
	query := `
		INSERT INTO trades (pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	if trade.ClosedAt.IsZero() {
		trade.ClosedAt = time.Now()
	}

	err := r.db.QueryRow(
		query,
		trade.Pair,
		trade.Quantity1,
		trade.Quantity2,
		trade.EntryPrice1,
		trade.EntryPrice2,
		trade.ExitPrice1,
		trade.ExitPrice2,
		trade.EntryZScore,
		trade.Pnl,
		trade.Reason,
		trade.OpenedAt,
		trade.ClosedAt,
	).Scan(&trade.ID)

	if err != nil {
		return err
	}

	return nil
}

// SaveTrade сохраняет сделку. Тонкая обертка над Create для торгового движка
func (r *TradeRepository) SaveTrade(trade *models.TradeRecord) error {
	return r.Create(trade)
}

// GetByID возвращает сделку по ID
func (r *TradeRepository) GetByID(id int) (*models.TradeRecord, error) {
	query := `
		SELECT id, pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at
		FROM trades
		WHERE id = $1`

	trade := &models.TradeRecord{}
	err := r.db.QueryRow(query, id).Scan(
		&trade.ID,
		&trade.Pair,
		&trade.Quantity1,
		&trade.Quantity2,
		&trade.EntryPrice1,
		&trade.EntryPrice2,
		&trade.ExitPrice1,
		&trade.ExitPrice2,
		&trade.EntryZScore,
		&trade.Pnl,
		&trade.Reason,
		&trade.OpenedAt,
		&trade.ClosedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}

	return trade, nil
}

// GetRecent возвращает последние N сделок
func (r *TradeRepository) GetRecent(limit int) ([]*models.TradeRecord, error) {
	query := `
		SELECT id, pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at
		FROM trades
		ORDER BY closed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByPair возвращает сделки для конкретной пары
func (r *TradeRepository) GetByPair(pair string, limit int) ([]*models.TradeRecord, error) {
	query := `
		SELECT id, pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at
		FROM trades
		WHERE pair = $1
		ORDER BY closed_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, pair, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByReason возвращает сделки с определенной причиной закрытия
func (r *TradeRepository) GetByReason(reason string, limit int) ([]*models.TradeRecord, error) {
	query := `
		SELECT id, pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at
		FROM trades
		WHERE reason = $1
		ORDER BY closed_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, reason, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetClosedInTimeRange возвращает сделки, закрытые за период
func (r *TradeRepository) GetClosedInTimeRange(from, to time.Time) ([]*models.TradeRecord, error) {
	query := `
		SELECT id, pair, quantity1, quantity2, entry_price1, entry_price2, exit_price1, exit_price2, entry_zscore, pnl, reason, opened_at, closed_at
		FROM trades
		WHERE closed_at >= $1 AND closed_at <= $2
		ORDER BY closed_at DESC`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// TotalPnl возвращает суммарный реализованный PnL по всем сделкам
func (r *TradeRepository) TotalPnl() (float64, error) {
	query := `SELECT COALESCE(SUM(pnl), 0) FROM trades`

	var total float64
	err := r.db.QueryRow(query).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// Count возвращает общее количество сделок
func (r *TradeRepository) Count() (int, error) {
	query := `SELECT COUNT(*) FROM trades`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountByPair возвращает количество сделок для пары
func (r *TradeRepository) CountByPair(pair string) (int, error) {
	query := `SELECT COUNT(*) FROM trades WHERE pair = $1`

	var count int
	err := r.db.QueryRow(query, pair).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteOlderThan удаляет сделки, закрытые раньше указанной даты
func (r *TradeRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	query := `DELETE FROM trades WHERE closed_at < $1`

	result, err := r.db.Exec(query, timestamp)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// scanTrades читает набор строк в список сделок
func scanTrades(rows *sql.Rows) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	for rows.Next() {
		trade := &models.TradeRecord{}
		err := rows.Scan(
			&trade.ID,
			&trade.Pair,
			&trade.Quantity1,
			&trade.Quantity2,
			&trade.EntryPrice1,
			&trade.EntryPrice2,
			&trade.ExitPrice1,
			&trade.ExitPrice2,
			&trade.EntryZScore,
			&trade.Pnl,
			&trade.Reason,
			&trade.OpenedAt,
			&trade.ClosedAt,
		)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trades, nil
}
