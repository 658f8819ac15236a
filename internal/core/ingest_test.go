package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeTransaction(t *testing.T) {
	date := NewDate(2026, 1, 2)
	tests := []struct {
		name      string
		in        TransactionInput
		wantType  TxType
		wantCents int64
		wantCat   string
		wantErr   error
	}{
		{
			name:      "signed expense",
			in:        TransactionInput{Amount: decimal.RequireFromString("-150"), Type: Expense, Category: "Food", Date: date},
			wantType:  Expense,
			wantCents: 15000,
			wantCat:   "Food",
		},
		{
			name:      "positive expense with type",
			in:        TransactionInput{Amount: decimal.RequireFromString("20.5"), Type: Expense, Category: "Food", Date: date},
			wantType:  Expense,
			wantCents: 2050,
			wantCat:   "Food",
		},
		{
			name:      "type inferred from negative sign",
			in:        TransactionInput{Amount: decimal.RequireFromString("-5"), Date: date},
			wantType:  Expense,
			wantCents: 500,
			wantCat:   DefaultCategory,
		},
		{
			name:      "type inferred income",
			in:        TransactionInput{Amount: decimal.RequireFromString("1000"), Source: "Salary", Date: date},
			wantType:  Income,
			wantCents: 100000,
		},
		{
			name:    "negative income rejected",
			in:      TransactionInput{Amount: decimal.RequireFromString("-1"), Type: Income, Date: date},
			wantErr: ErrSignMismatch,
		},
		{
			name:    "zero amount rejected",
			in:      TransactionInput{Amount: decimal.Zero, Type: Income, Date: date},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown type",
			in:      TransactionInput{Amount: decimal.RequireFromString("1"), Type: "transfer", Date: date},
			wantErr: ErrInvalidType,
		},
		{
			name:    "missing date",
			in:      TransactionInput{Amount: decimal.RequireFromString("1"), Type: Income},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTransaction(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.wantType || got.Amount.Cents != tt.wantCents || got.Category != tt.wantCat {
				t.Fatalf("unexpected transaction: %+v", got)
			}
			if got.ID == "" {
				t.Fatalf("expected id to be assigned")
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	exp := Transaction{Amount: Money{Cents: 150}, Type: Expense}
	inc := Transaction{Amount: Money{Cents: 150}, Type: Income}
	if exp.SignedAmount().Cents != -150 || inc.SignedAmount().Cents != 150 {
		t.Fatalf("unexpected signed amounts: %v %v", exp.SignedAmount(), inc.SignedAmount())
	}
}
