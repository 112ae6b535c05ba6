package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"simple dot", "12.34", 1234, false},
		{"simple comma", "12,34", 1234, false},
		{"integer", "12", 1200, false},
		{"one decimal", "12.3", 1230, false},
		{"rounds half up", "12.346", 1235, false},
		{"rounds down", "12.344", 1234, false},
		{"leading dot", ".50", 50, false},
		{"whitespace", "  7.00  ", 700, false},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-5.00", 0, true},
		{"plus sign", "+5.00", 0, true},
		{"letters", "abc", 0, true},
		{"two separators", "1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDecimalToCents(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Errorf("Validate(100) = %v, want nil", err)
	}
	if err := (Money{Cents: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate(0) = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -5}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate(-5) = %v, want ErrInvalidAmount", err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1500}
	b := Money{Cents: 700}

	if got := a.Add(b); got.Cents != 2200 {
		t.Errorf("Add = %d, want 2200", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 800 {
		t.Errorf("Sub = %d, want 800", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -800 {
		t.Errorf("Sub may go negative: got %d, want -800", got.Cents)
	}
}
