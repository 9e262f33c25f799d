package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oztunc/lesson-planner/internal/domain"
)

func newStudent(anchor int) *domain.Student {
	return &domain.Student{Name: "Deniz", PaymentDay: anchor}
}

func TestRecordPayment(t *testing.T) {
	s := newStudent(5)

	changed := RecordPayment(s, date(2024, time.January, 5))
	assert.True(t, changed)

	require.NotNil(t, s.LastPaymentDate)
	require.NotNil(t, s.NextDueDate)
	assert.True(t, s.LastPaymentDate.Equal(date(2024, time.January, 5)))
	assert.True(t, s.NextDueDate.Equal(date(2024, time.February, 5)))
	assert.Len(t, s.PaymentHistory, 1)
}

func TestRecordPaymentIsIdempotent(t *testing.T) {
	s := newStudent(5)

	RecordPayment(s, date(2024, time.January, 5))
	once := s.Clone()

	changed := RecordPayment(s, date(2024, time.January, 5))
	assert.False(t, changed)
	assert.Equal(t, once, s.Clone())
}

func TestRecordPaymentKeepsMaximumAsLast(t *testing.T) {
	s := newStudent(5)

	RecordPayment(s, date(2024, time.February, 5))
	// Backfilling an older payment must not move the cycle backwards.
	changed := RecordPayment(s, date(2024, time.January, 5))
	assert.True(t, changed)

	require.NotNil(t, s.LastPaymentDate)
	assert.True(t, s.LastPaymentDate.Equal(date(2024, time.February, 5)))
	assert.True(t, s.NextDueDate.Equal(date(2024, time.March, 5)))

	// History is kept newest first.
	require.Len(t, s.PaymentHistory, 2)
	assert.True(t, s.PaymentHistory[0].After(s.PaymentHistory[1]))
}

func TestDeletePaymentRecomputesFromRemainingMaximum(t *testing.T) {
	s := newStudent(5)
	RecordPayment(s, date(2024, time.January, 5))
	RecordPayment(s, date(2024, time.February, 5))

	changed := DeletePayment(s, date(2024, time.February, 5))
	assert.True(t, changed)

	require.NotNil(t, s.LastPaymentDate)
	require.NotNil(t, s.NextDueDate)
	assert.True(t, s.LastPaymentDate.Equal(date(2024, time.January, 5)))
	assert.True(t, s.NextDueDate.Equal(date(2024, time.February, 5)))
}

func TestDeleteLastPaymentResetsCycle(t *testing.T) {
	s := newStudent(5)
	RecordPayment(s, date(2024, time.January, 5))

	changed := DeletePayment(s, date(2024, time.January, 5))
	assert.True(t, changed)

	assert.Nil(t, s.LastPaymentDate)
	assert.Nil(t, s.NextDueDate)
	assert.Empty(t, s.PaymentHistory)
	assert.Equal(t, domain.DueStateUnset, Evaluate(s, date(2024, time.June, 1)).State)
}

func TestDeleteUnknownPaymentIsNoOp(t *testing.T) {
	s := newStudent(5)
	RecordPayment(s, date(2024, time.January, 5))
	before := s.Clone()

	changed := DeletePayment(s, date(2024, time.March, 1))
	assert.False(t, changed)
	assert.Equal(t, before, s.Clone())
}
