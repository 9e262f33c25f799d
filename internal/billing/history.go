package billing

import (
	"sort"
	"time"

	"github.com/oztunc/lesson-planner/internal/domain"
)

// RecordPayment inserts a payment date into the student's history and
// recomputes the derived billing fields. Recording the same date twice
// is a no-op; the returned bool reports whether anything changed.
func RecordPayment(s *domain.Student, date time.Time) bool {
	date = domain.DateOnly(date)
	for _, existing := range s.PaymentHistory {
		if existing.Equal(date) {
			return false
		}
	}

	s.PaymentHistory = append(s.PaymentHistory, date)
	Recompute(s)
	return true
}

// DeletePayment removes a payment date from the history if present and
// recomputes the derived fields from the remaining maximum. An empty
// history resets the billing cycle entirely.
func DeletePayment(s *domain.Student, date time.Time) bool {
	date = domain.DateOnly(date)
	for i, existing := range s.PaymentHistory {
		if existing.Equal(date) {
			s.PaymentHistory = append(s.PaymentHistory[:i], s.PaymentHistory[i+1:]...)
			Recompute(s)
			return true
		}
	}
	return false
}

// Recompute re-derives last payment and next due date from the
// history. The history is the single source of truth; nothing derived
// is stored that this function cannot rebuild.
func Recompute(s *domain.Student) {
	if len(s.PaymentHistory) == 0 {
		s.LastPaymentDate = nil
		s.NextDueDate = nil
		return
	}

	sort.Slice(s.PaymentHistory, func(i, j int) bool {
		return s.PaymentHistory[i].After(s.PaymentHistory[j])
	})

	last := s.PaymentHistory[0]
	next := NextDueDate(last, s.PaymentDay)
	s.LastPaymentDate = &last
	s.NextDueDate = &next
}
