package core

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

type (
	TransactionType string

	// Category is a free-text label such as "Food" or "Salary".
	Category string

	// Date is kept as entered (YYYY-MM-DD); it is not checked against a calendar.
	Date string

	Transaction struct {
		Amount   decimal.Decimal // Magnitude as entered; the sign is carried by Type
		Type     TransactionType
		Category Category
		Date     Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid type: must be Income or Expense")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyDate     = errors.New("empty date")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return strings.ToLower(e.Field) + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// draft holds raw user input before it becomes a Transaction.
type draft struct {
	Amount   string `validate:"required"`
	Type     string `validate:"required,oneof=Income Expense"`
	Category string `validate:"required"`
	Date     string `validate:"required"`
}

var (
	validate = validator.New()

	fieldErrors = map[string]error{
		"Amount":   ErrInvalidAmount,
		"Type":     ErrInvalidType,
		"Category": ErrEmptyCategory,
		"Date":     ErrEmptyDate,
	}
)

// NewTransaction builds a validated Transaction from raw input fields.
// The type is case-normalized, so "income" and "EXPENSE" are accepted.
func NewTransaction(amount, kind, category, date string) (Transaction, error) {
	d := draft{
		Amount:   strings.TrimSpace(amount),
		Type:     normalizeType(kind),
		Category: strings.TrimSpace(category),
		Date:     strings.TrimSpace(date),
	}
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return Transaction{}, &ValidationError{Field: field, Err: fieldErrors[field]}
		}
		return Transaction{}, err
	}

	amt, err := ParseAmount(d.Amount)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "Amount", Err: err}
	}

	return Transaction{
		Amount:   amt,
		Type:     TransactionType(d.Type),
		Category: Category(d.Category),
		Date:     Date(d.Date),
	}, nil
}

// ParseType maps s onto Income or Expense ignoring case and surrounding spaces.
func ParseType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", ErrInvalidType
}

func normalizeType(s string) string {
	if t, err := ParseType(s); err == nil {
		return string(t)
	}
	return strings.TrimSpace(s)
}

func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if t is one of the two recognized types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Validate checks the invariants a Transaction must hold before it is persisted.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return &ValidationError{Field: "Type", Err: ErrInvalidType}
	}
	if strings.TrimSpace(string(t.Category)) == "" {
		return &ValidationError{Field: "Category", Err: ErrEmptyCategory}
	}
	if strings.TrimSpace(string(t.Date)) == "" {
		return &ValidationError{Field: "Date", Err: ErrEmptyDate}
	}
	return nil
}

// Equal compares two transactions field by field, amounts numerically.
func (t Transaction) Equal(o Transaction) bool {
	return t.Amount.Equal(o.Amount) &&
		t.Type == o.Type &&
		t.Category == o.Category &&
		t.Date == o.Date
}
