package http

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/reminders"
)

// Amounts cross the API as decimal strings ("150.00") so clients never see
// float rounding.

type transactionRequest struct {
	Category string          `json:"category"`
	Source   string          `json:"source"`
	Amount   decimal.Decimal `json:"amount"`
	Date     core.Date       `json:"date"`
	Time     string          `json:"time"`
	Type     core.TxType     `json:"type"`
}

func (req transactionRequest) input() core.TransactionInput {
	return core.TransactionInput{
		Category: req.Category,
		Source:   req.Source,
		Amount:   req.Amount,
		Date:     req.Date,
		Time:     req.Time,
		Type:     req.Type,
	}
}

type transactionResponse struct {
	ID           string      `json:"id"`
	Category     string      `json:"category"`
	Source       string      `json:"source"`
	Amount       string      `json:"amount"`
	SignedAmount string      `json:"signedAmount"`
	Date         core.Date   `json:"date"`
	Time         string      `json:"time,omitempty"`
	Type         core.TxType `json:"type"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Category:     t.Category,
		Source:       t.Source,
		Amount:       t.Amount.String(),
		SignedAmount: t.SignedAmount().String(),
		Date:         t.Date,
		Time:         t.Time,
		Type:         t.Type,
	}
}

type summaryResponse struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

func toSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  s.TotalIncome.String(),
		TotalExpense: s.TotalExpense.String(),
		Balance:      s.Balance.String(),
	}
}

type transactionListResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Summary      summaryResponse       `json:"summary"`
	Skipped      int                   `json:"skipped"`
}

type amountEntry struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type trendEntry struct {
	Date    core.Date `json:"date"`
	Income  string    `json:"income"`
	Expense string    `json:"expense"`
}

type periodResponse struct {
	Name  string    `json:"name"`
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

type reportResponse struct {
	Period     periodResponse  `json:"period"`
	Summary    summaryResponse `json:"summary"`
	Categories []amountEntry   `json:"categories"`
	Trend      []trendEntry    `json:"trend"`
	Comparison []amountEntry   `json:"comparison"`
	Count      int             `json:"count"`
}

func toReportResponse(r analytics.Report, categories []core.CategoryAmount) reportResponse {
	out := reportResponse{
		Period:     periodResponse{Name: r.Period.Name, Start: r.Period.Start, End: r.Period.End},
		Summary:    toSummaryResponse(r.Summary),
		Categories: make([]amountEntry, 0, len(categories)),
		Trend:      make([]trendEntry, 0, len(r.Trend)),
		Comparison: make([]amountEntry, 0, len(r.Comparison)),
		Count:      r.Count,
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, amountEntry{Name: c.Name, Amount: c.Amount.String()})
	}
	for _, d := range r.Trend {
		out.Trend = append(out.Trend, trendEntry{Date: d.Date, Income: d.Income.String(), Expense: d.Expense.String()})
	}
	for _, b := range r.Comparison {
		out.Comparison = append(out.Comparison, amountEntry{Name: b.Label, Amount: b.Amount.String()})
	}
	return out
}

type reminderRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	DueDate      core.Date        `json:"dueDate"`
	Recurrence   core.Recurrence  `json:"recurrence"`
	EmailEnabled bool             `json:"emailEnabled"`
	UserEmail    string           `json:"userEmail"`
}

func (req reminderRequest) reminder() (core.Reminder, error) {
	r := core.Reminder{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Recurrence:   req.Recurrence,
		EmailEnabled: req.EmailEnabled,
		UserEmail:    req.UserEmail,
	}
	if req.Amount != nil {
		m, err := core.MoneyFromDecimal(*req.Amount)
		if err != nil {
			return core.Reminder{}, &core.ValidationError{Field: "amount", Err: err}
		}
		r.Amount = m
	}
	return r, nil
}

type reminderResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Amount          string            `json:"amount,omitempty"`
	DueDate         core.Date         `json:"dueDate"`
	Recurrence      core.Recurrence   `json:"recurrence"`
	RecurrenceLabel string            `json:"recurrenceLabel"`
	EmailEnabled    bool              `json:"emailEnabled"`
	UserEmail       string            `json:"userEmail,omitempty"`
	EmailSent       bool              `json:"emailSent"`
	CreatedAt       time.Time         `json:"createdAt"`
	DaysUntil       int               `json:"daysUntil"`
	Urgency         reminders.Urgency `json:"urgency"`
}

func toReminderResponse(st reminders.Status) reminderResponse {
	r := st.Reminder
	out := reminderResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		DueDate:         r.DueDate,
		Recurrence:      r.Recurrence,
		RecurrenceLabel: r.Recurrence.Label(),
		EmailEnabled:    r.EmailEnabled,
		UserEmail:       r.UserEmail,
		EmailSent:       r.EmailSent,
		CreatedAt:       r.CreatedAt,
		DaysUntil:       st.DaysUntil,
		Urgency:         st.Urgency,
	}
	if r.Amount.Cents != 0 {
		out.Amount = r.Amount.String()
	}
	return out
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
