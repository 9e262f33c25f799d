package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oztunc/lesson-planner/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name      string
		base      time.Time
		anchorDay int
		expected  time.Time
	}{
		{
			name:      "plain month advance",
			base:      date(2024, time.March, 15),
			anchorDay: 5,
			expected:  date(2024, time.April, 5),
		},
		{
			name:      "anchor later than base day",
			base:      date(2024, time.March, 3),
			anchorDay: 28,
			expected:  date(2024, time.April, 28),
		},
		{
			name:      "clamp to leap february",
			base:      date(2024, time.January, 31),
			anchorDay: 31,
			expected:  date(2024, time.February, 29),
		},
		{
			name:      "clamp to non-leap february",
			base:      date(2023, time.January, 31),
			anchorDay: 31,
			expected:  date(2023, time.February, 28),
		},
		{
			name:      "anchor 30 in february",
			base:      date(2023, time.January, 15),
			anchorDay: 30,
			expected:  date(2023, time.February, 28),
		},
		{
			name:      "anchor 31 in a 30-day month",
			base:      date(2024, time.March, 10),
			anchorDay: 31,
			expected:  date(2024, time.April, 30),
		},
		{
			name:      "december rolls into january",
			base:      date(2023, time.December, 20),
			anchorDay: 5,
			expected:  date(2024, time.January, 5),
		},
		{
			name:      "time component is ignored",
			base:      time.Date(2024, time.March, 15, 17, 45, 12, 0, time.UTC),
			anchorDay: 5,
			expected:  date(2024, time.April, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(tt.base, tt.anchorDay)
			assert.True(t, got.Equal(tt.expected),
				"expected %s, got %s", tt.expected.Format(domain.DateLayout), got.Format(domain.DateLayout))
		})
	}
}

func TestEvaluate(t *testing.T) {
	due := date(2024, time.February, 5)

	tests := []struct {
		name        string
		nextDue     *time.Time
		today       time.Time
		wantState   string
		wantOverdue int
	}{
		{
			name:      "no payment plan yet",
			nextDue:   nil,
			today:     date(2024, time.February, 10),
			wantState: domain.DueStateUnset,
		},
		{
			name:      "before the due date",
			nextDue:   &due,
			today:     date(2024, time.February, 1),
			wantState: domain.DueStateUpToDate,
		},
		{
			name:      "on the due date",
			nextDue:   &due,
			today:     date(2024, time.February, 5),
			wantState: domain.DueStateUpToDate,
		},
		{
			name:        "one day late",
			nextDue:     &due,
			today:       date(2024, time.February, 6),
			wantState:   domain.DueStateDelinquent,
			wantOverdue: 1,
		},
		{
			name:        "three weeks late",
			nextDue:     &due,
			today:       date(2024, time.February, 26),
			wantState:   domain.DueStateDelinquent,
			wantOverdue: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := &domain.Student{NextDueDate: tt.nextDue}
			status := Evaluate(student, tt.today)
			assert.Equal(t, tt.wantState, status.State)
			assert.Equal(t, tt.wantOverdue, status.DaysOverdue)
		})
	}
}
