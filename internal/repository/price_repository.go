package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"statarb/internal/models"
)

// PriceRepository - работа с таблицей price_points (исторические цены).
// Реализует источник рыночных данных для аналитики: ряды возвращаются
// в хронологическом порядке, от старых к новым
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository создает новый экземпляр репозитория
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Insert сохраняет одну точку ценового ряда
func (r *PriceRepository) Insert(point *models.PricePoint) error {
	query := `
		INSERT INTO price_points (asset, price, timestamp)
		VALUES ($1, $2, $3)`

	if point.Timestamp.IsZero() {
		point.Timestamp = time.Now()
	}

	_, err := r.db.Exec(query, point.Asset, point.Price, point.Timestamp)
	return err
}

// InsertBatch сохраняет набор точек в одной транзакции
func (r *PriceRepository) InsertBatch(points []*models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO price_points (asset, price, timestamp)
		VALUES ($1, $2, $3)`

	for _, point := range points {
		if point.Timestamp.IsZero() {
			point.Timestamp = time.Now()
		}
		if _, err := tx.Exec(query, point.Asset, point.Price, point.Timestamp); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetPriceSeries возвращает последние limit точек актива в хронологическом порядке
func (r *PriceRepository) GetPriceSeries(ctx context.Context, asset string, limit int) ([]models.PricePoint, error) {
	query := `
		SELECT price, timestamp
		FROM price_points
		WHERE asset = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, asset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		point := models.PricePoint{Asset: asset}
		if err := rows.Scan(&point.Price, &point.Timestamp); err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Запрос отдает новые первыми, разворачиваем к хронологическому порядку
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return points, nil
}

// GetCurrentPrices возвращает последнюю известную цену каждого актива.
// Активы без единой точки в таблице отсутствуют в результате
func (r *PriceRepository) GetCurrentPrices(ctx context.Context, assets []string) (map[string]float64, error) {
	if len(assets) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT DISTINCT ON (asset) asset, price
		FROM price_points
		WHERE asset = ANY($1)
		ORDER BY asset, timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(assets))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string]float64, len(assets))
	for rows.Next() {
		var asset string
		var price float64
		if err := rows.Scan(&asset, &price); err != nil {
			return nil, err
		}
		prices[asset] = price
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

// CountByAsset возвращает количество точек для актива
func (r *PriceRepository) CountByAsset(asset string) (int, error) {
	query := `SELECT COUNT(*) FROM price_points WHERE asset = $1`

	var count int
	err := r.db.QueryRow(query, asset).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteOlderThan удаляет точки старше указанной даты
func (r *PriceRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	query := `DELETE FROM price_points WHERE timestamp < $1`

	result, err := r.db.Exec(query, timestamp)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
