package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Due states derived from a student's billing cycle.
const (
	DueStateUnset      = "unset"
	DueStateUpToDate   = "up_to_date"
	DueStateDelinquent = "delinquent"
)

// Student is the billing subject behind a schedulable lesson. The
// schedule references students by ID only and does not require one to
// exist for placement.
type Student struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	ParentName  string          `json:"parent_name"`
	ParentPhone string          `json:"parent_phone"`
	DateOfBirth *time.Time      `json:"date_of_birth"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`

	// PaymentDay is the preferred day of month the tuition is due,
	// clamped to month end for short months.
	PaymentDay int `json:"payment_day"`

	// LastPaymentDate is always the maximum of PaymentHistory and
	// NextDueDate its recomputation; both are nil iff the history is
	// empty.
	LastPaymentDate *time.Time `json:"last_payment_date"`
	NextDueDate     *time.Time `json:"next_due_date"`

	// PaymentHistory holds unique payment dates sorted descending,
	// newest first.
	PaymentHistory []time.Time `json:"payment_history"`
}

// Clone deep-copies the student so snapshots do not alias engine state.
func (s *Student) Clone() *Student {
	c := *s
	if s.DateOfBirth != nil {
		dob := *s.DateOfBirth
		c.DateOfBirth = &dob
	}
	if s.LastPaymentDate != nil {
		last := *s.LastPaymentDate
		c.LastPaymentDate = &last
	}
	if s.NextDueDate != nil {
		next := *s.NextDueDate
		c.NextDueDate = &next
	}
	c.PaymentHistory = append([]time.Time(nil), s.PaymentHistory...)
	return &c
}

// DueStatus is the delinquency verdict for a student on a given day.
type DueStatus struct {
	State       string     `json:"state"`
	DaysOverdue int        `json:"days_overdue"`
	NextDueDate *time.Time `json:"next_due_date"`
}
