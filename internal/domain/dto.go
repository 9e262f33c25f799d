package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for requests and responses

type PlaceLessonRequest struct {
	Day             string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	Start           string `json:"start" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	StudentID       string `json:"student_id" validate:"required,uuid"`
}

type SetLessonStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed no_show_student no_show_teacher"`
}

type WorkingHoursRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type StudentRequest struct {
	Name        string          `json:"name" validate:"required"`
	ParentName  string          `json:"parent_name"`
	ParentPhone string          `json:"parent_phone"`
	DateOfBirth string          `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PaymentDay  int             `json:"payment_day" validate:"required,min=1,max=31"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
}

type RecordPaymentRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// OccupancyStats summarizes how full the teaching week is. Empty
// minutes can go negative when lessons predate a working-hours shrink;
// that is reported as-is rather than clamped.
type OccupancyStats struct {
	FilledMinutes int     `json:"filled_minutes"`
	EmptyMinutes  int     `json:"empty_minutes"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type WeekScheduleResponse struct {
	WorkingHours WorkingHours          `json:"working_hours"`
	Schedule     map[Weekday][]*Lesson `json:"schedule"`
}

type StudentBillingResponse struct {
	StudentID       uuid.UUID  `json:"student_id"`
	Name            string     `json:"name"`
	Status          DueStatus  `json:"status"`
	LastPaymentDate *time.Time `json:"last_payment_date"`
	PaymentHistory  []string   `json:"payment_history"`
}

type NoShowReportEntry struct {
	StudentID    uuid.UUID `json:"student_id"`
	Name         string    `json:"name"`
	StudentFault int       `json:"student_fault"`
	TeacherFault int       `json:"teacher_fault"`
	Total        int       `json:"total"`
}

type RevenueReport struct {
	ExpectedMonthly decimal.Decimal `json:"expected_monthly"`
	OverdueAmount   decimal.Decimal `json:"overdue_amount"`
	DelinquentCount int             `json:"delinquent_count"`
}
