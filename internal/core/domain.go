package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Monthly BillingPeriod = "monthly"
	Yearly  BillingPeriod = "yearly"
)

// SettingUserName is the settings key holding the user's display name.
const SettingUserName = "userName"

type (
	TransactionType string

	BillingPeriod string

	// Transaction is a single dated income or expense record. Category is
	// free-form in storage; use CategoryOf to map it onto the known set.
	Transaction struct {
		ID          string
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Date        time.Time
		Description string
	}

	// Subscription is a recurring charge. NextBillingDate is maintained by
	// the user and never advanced automatically.
	Subscription struct {
		ID              string
		Name            string
		Cost            decimal.Decimal
		BillingPeriod   BillingPeriod
		NextBillingDate time.Time
		Active          bool
	}

	// Budget is a monthly spending ceiling keyed by category.
	Budget struct {
		Category string
		Limit    decimal.Decimal
	}

	Setting struct {
		Key   string
		Value any
	}
)

var (
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidBillingPeriod = errors.New("invalid billing period")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyName            = errors.New("empty name")
	ErrEmptyCategory        = errors.New("empty category")
	ErrEmptyID              = errors.New("empty id")
	ErrZeroDate             = errors.New("date cannot be zero")
)

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (p BillingPeriod) IsValid() bool {
	return p == Monthly || p == Yearly
}

// Validate checks the fields a form would enforce. Storage and aggregation
// never call it: they accept whatever they are given.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Cost.IsNegative() {
		return ErrInvalidAmount
	}
	if !s.BillingPeriod.IsValid() {
		return ErrInvalidBillingPeriod
	}
	if s.NextBillingDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
