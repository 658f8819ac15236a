package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary holds income and expense totals for a set of transactions.
// Balance is always TotalIncome minus TotalExpense.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	Balance      Money
}
