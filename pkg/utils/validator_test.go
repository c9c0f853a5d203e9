package utils

import (
	"testing"
)

func TestIsValidAsset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid BTC/USDT", "BTC/USDT", true},
		{"valid ETH/USDT", "ETH/USDT", true},
		{"valid numeric base", "1INCH/USDT", true},
		{"lowercase normalized", "btc/usdt", true},
		{"surrounding spaces", "  BTC/USDT  ", true},
		{"missing quote", "BTCUSDT", false},
		{"empty", "", false},
		{"single letter base", "B/USDT", false},
		{"too long base", "VERYLONGASSET/USDT", false},
		{"double slash", "BTC//USDT", false},
		{"underscore", "BTC_USDT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAsset(tt.input); got != tt.expected {
				t.Errorf("IsValidAsset(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeAsset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "btc/usdt", "BTC/USDT"},
		{"uppercase unchanged", "BTC/USDT", "BTC/USDT"},
		{"mixed case", "Btc/Usdt", "BTC/USDT"},
		{"with spaces", "  eth/usdt  ", "ETH/USDT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAsset(tt.input); got != tt.expected {
				t.Errorf("NormalizeAsset(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateAsset(t *testing.T) {
	if err := ValidateAsset("BTC/USDT"); err != nil {
		t.Errorf("ValidateAsset(BTC/USDT) = %v, want nil", err)
	}

	if err := ValidateAsset(""); err == nil {
		t.Error("ValidateAsset(\"\") = nil, want error")
	}

	if err := ValidateAsset("BTCUSDT"); err == nil {
		t.Error("ValidateAsset(BTCUSDT) = nil, want error")
	}
}

func TestValidatePairSpec(t *testing.T) {
	tests := []struct {
		name    string
		asset1  string
		asset2  string
		wantErr bool
	}{
		{"valid pair", "BTC/USDT", "ETH/USDT", false},
		{"case insensitive", "btc/usdt", "ETH/USDT", false},
		{"same asset both legs", "BTC/USDT", "BTC/USDT", true},
		{"same asset different case", "BTC/USDT", "btc/usdt", true},
		{"different quote currencies", "BTC/USDT", "ETH/USDC", true},
		{"invalid first leg", "BTCUSDT", "ETH/USDT", true},
		{"invalid second leg", "BTC/USDT", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePairSpec(tt.asset1, tt.asset2)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePairSpec(%q, %q) error = %v, wantErr %v",
					tt.asset1, tt.asset2, err, tt.wantErr)
			}
		})
	}
}
