package core

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	Once      Recurrence = "once"
	Monthly   Recurrence = "monthly"
	Quarterly Recurrence = "quarterly"
	Yearly    Recurrence = "yearly"
)

// MaxTitleLength bounds reminder titles, counted in characters.
const MaxTitleLength = 200

// DefaultCategory is used for expenses submitted without a category.
const DefaultCategory = "Others"

// SuggestedCategories is the fixed suggestion list offered by clients.
// Categories remain free text.
var SuggestedCategories = []string{"Food", "Transport", "Shopping", "Health", "Entertainment", "Education", "Others"}

type (
	TxType string

	Recurrence string

	// Transaction is an immutable income or expense entry. Amount is always
	// the unsigned magnitude; Type carries the direction.
	Transaction struct {
		ID       string
		Category string
		Source   string
		Amount   Money
		Date     Date // zero when the stored date could not be parsed
		Time     string
		Type     TxType
	}

	Reminder struct {
		ID           string
		Title        string
		Description  string
		Amount       Money  // zero means not set
		DueDate      Date   // zero when the stored date could not be parsed
		RawDueDate   string // the unparseable stored text, written back on save
		Recurrence   Recurrence
		EmailEnabled bool
		UserEmail    string
		EmailSent    bool
		CreatedAt    time.Time
	}

	User struct {
		ID           string
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrSignMismatch       = errors.New("amount sign does not match transaction type")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyTitle         = errors.New("empty title")
	ErrTitleTooLong       = errors.New("title too long (max 200 characters)")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports which field of a record was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// NewID returns a time-ordered identifier, so ids sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// ParseTxType accepts "income" or "expense" in any case.
func ParseTxType(s string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (r Recurrence) IsValid() bool {
	switch r {
	case Once, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// Label is the human readable recurrence name used in notifications.
func (r Recurrence) Label() string {
	switch r {
	case Once:
		return "One-time"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	default:
		return string(r)
	}
}

// SignedAmount returns the amount with the sign implied by the type,
// for display only.
func (t Transaction) SignedAmount() Money {
	if t.Type == Expense {
		return Money{Cents: -t.Amount.Cents}
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return invalid("type", ErrInvalidType)
	}
	if err := t.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if err := t.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	return nil
}

func (r Reminder) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return invalid("title", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return invalid("title", ErrTitleTooLong)
	}
	if err := r.DueDate.Validate(); err != nil {
		return invalid("dueDate", err)
	}
	if !r.Recurrence.IsValid() {
		return invalid("recurrence", ErrInvalidRecurrence)
	}
	if r.Amount.Cents < 0 {
		return invalid("amount", ErrInvalidAmount)
	}
	if r.EmailEnabled {
		if err := ValidateEmail(r.UserEmail); err != nil {
			return invalid("userEmail", err)
		}
	}
	return nil
}

// DueDateText is the due date as persisted: the parsed date, or the raw
// text kept from a record whose date could not be parsed.
func (r Reminder) DueDateText() string {
	if r.DueDate.IsZero() {
		return r.RawDueDate
	}
	return r.DueDate.String()
}

// SetDueDateText restores the due date from persisted text. Unparseable
// text leaves DueDate zero and is kept in RawDueDate.
func (r *Reminder) SetDueDateText(s string) {
	d, err := ParseDate(s)
	if err != nil {
		r.DueDate, r.RawDueDate = Date{}, s
		return
	}
	r.DueDate, r.RawDueDate = d, ""
}

// HasMalformedDueDate reports a reminder loaded without a usable due date.
func (r Reminder) HasMalformedDueDate() bool {
	return r.DueDate.IsZero()
}

// ValidateEmail accepts a bare address such as "name@example.com".
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}
