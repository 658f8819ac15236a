package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionInput is a transaction as submitted by a client. Amount may be
// signed; Type may be empty, in which case it is inferred from the sign.
type TransactionInput struct {
	Category string
	Source   string
	Amount   decimal.Decimal
	Date     Date
	Time     string
	Type     TxType
}

// NormalizeTransaction converts input into the canonical representation:
// unsigned magnitude plus explicit type. A negative income amount
// contradicts its type and is rejected; expenses accept either sign.
func NormalizeTransaction(in TransactionInput) (Transaction, error) {
	if in.Amount.IsZero() {
		return Transaction{}, invalid("amount", ErrInvalidAmount)
	}

	typ := in.Type
	switch {
	case typ == "" && in.Amount.IsNegative():
		typ = Expense
	case typ == "":
		typ = Income
	case !typ.IsValid():
		return Transaction{}, invalid("type", ErrInvalidType)
	}
	if typ == Income && in.Amount.IsNegative() {
		return Transaction{}, invalid("amount", ErrSignMismatch)
	}

	amount, err := MoneyFromDecimal(in.Amount.Abs())
	if err != nil {
		return Transaction{}, invalid("amount", err)
	}

	t := Transaction{
		ID:       NewID(),
		Category: strings.TrimSpace(in.Category),
		Source:   strings.TrimSpace(in.Source),
		Amount:   amount,
		Date:     in.Date,
		Time:     strings.TrimSpace(in.Time),
		Type:     typ,
	}
	if t.Type == Expense && t.Category == "" {
		t.Category = DefaultCategory
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}
