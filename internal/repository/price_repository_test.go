package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"statarb/internal/models"
)

// ============================================================
// PriceRepository Tests
// ============================================================

func TestNewPriceRepository(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := NewPriceRepository(db)
	if repo == nil {
		t.Fatal("NewPriceRepository returned nil")
	}
	if repo.db != db {
		t.Error("db not set correctly")
	}
}

func TestPriceRepositoryInsert(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		point       *models.PricePoint
		mockSetup   func(mock sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name:  "success",
			point: &models.PricePoint{Asset: "BTC/USDT", Price: 50000.0, Timestamp: now},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO price_points`).
					WithArgs("BTC/USDT", 50000.0, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectError: false,
		},
		{
			name:  "database error",
			point: &models.PricePoint{Asset: "BTC/USDT", Price: 50000.0, Timestamp: now},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO price_points`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.mockSetup(mock)

			repo := NewPriceRepository(db)
			err = repo.Insert(tt.point)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestPriceRepositoryInsertBatch(t *testing.T) {
	now := time.Now()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs("BTC/USDT", 50000.0, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs("ETH/USDT", 3000.0, now).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewPriceRepository(db)
	err = repo.InsertBatch([]*models.PricePoint{
		{Asset: "BTC/USDT", Price: 50000.0, Timestamp: now},
		{Asset: "ETH/USDT", Price: 3000.0, Timestamp: now},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryInsertBatchRollback(t *testing.T) {
	now := time.Now()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO price_points`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	repo := NewPriceRepository(db)
	err = repo.InsertBatch([]*models.PricePoint{
		{Asset: "BTC/USDT", Price: 50000.0, Timestamp: now},
	})
	if err == nil {
		t.Error("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryInsertBatchEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := NewPriceRepository(db)
	if err := repo.InsertBatch(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryGetPriceSeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	// БД отдает новые первыми
	rows := sqlmock.NewRows([]string{"price", "timestamp"}).
		AddRow(50300.0, base.Add(2*time.Minute)).
		AddRow(50200.0, base.Add(1*time.Minute)).
		AddRow(50100.0, base)
	mock.ExpectQuery(`SELECT price, timestamp FROM price_points WHERE asset = \$1 ORDER BY timestamp DESC LIMIT \$2`).
		WithArgs("BTC/USDT", 3).
		WillReturnRows(rows)

	repo := NewPriceRepository(db)
	series, err := repo.GetPriceSeries(context.Background(), "BTC/USDT", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{50100.0, 50200.0, 50300.0}
	if len(series) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(series))
	}
	for i, price := range expected {
		if series[i].Price != price {
			t.Errorf("series[%d].Price = %f, expected %f (chronological order)", i, series[i].Price, price)
		}
		want := base.Add(time.Duration(i) * time.Minute)
		if !series[i].Timestamp.Equal(want) {
			t.Errorf("series[%d].Timestamp = %v, expected %v", i, series[i].Timestamp, want)
		}
		if series[i].Asset != "BTC/USDT" {
			t.Errorf("series[%d].Asset = %s, expected BTC/USDT", i, series[i].Asset)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryGetPriceSeriesEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT price, timestamp FROM price_points`).
		WithArgs("XRP/USDT", 60).
		WillReturnRows(sqlmock.NewRows([]string{"price", "timestamp"}))

	repo := NewPriceRepository(db)
	series, err := repo.GetPriceSeries(context.Background(), "XRP/USDT", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d points", len(series))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryGetCurrentPrices(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	assets := []string{"BTC/USDT", "ETH/USDT", "XRP/USDT"}

	// XRP/USDT отсутствует в таблице
	rows := sqlmock.NewRows([]string{"asset", "price"}).
		AddRow("BTC/USDT", 50000.0).
		AddRow("ETH/USDT", 3000.0)
	mock.ExpectQuery(`SELECT DISTINCT ON \(asset\) asset, price FROM price_points`).
		WithArgs(pq.Array(assets)).
		WillReturnRows(rows)

	repo := NewPriceRepository(db)
	prices, err := repo.GetCurrentPrices(context.Background(), assets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	if prices["BTC/USDT"] != 50000.0 {
		t.Errorf("expected BTC price 50000.0, got %f", prices["BTC/USDT"])
	}
	if _, ok := prices["XRP/USDT"]; ok {
		t.Error("asset without data should be absent from result")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryGetCurrentPricesNoAssets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := NewPriceRepository(db)
	prices, err := repo.GetCurrentPrices(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected empty map, got %d entries", len(prices))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryCountByAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM price_points WHERE asset = \$1`).
		WithArgs("BTC/USDT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))

	repo := NewPriceRepository(db)
	count, err := repo.CountByAsset("BTC/USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 120 {
		t.Errorf("expected count 120, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPriceRepositoryDeleteOlderThan(t *testing.T) {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM price_points WHERE timestamp < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 300))

	repo := NewPriceRepository(db)
	deleted, err := repo.DeleteOlderThan(cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 300 {
		t.Errorf("expected 300 deleted, got %d", deleted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
