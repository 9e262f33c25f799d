package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/oztunc/lesson-planner/internal/billing"
	"github.com/oztunc/lesson-planner/internal/domain"
)

type snapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

type workingHoursRow struct {
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

type studentRow struct {
	ID              uuid.UUID           `db:"id"`
	Name            string              `db:"name"`
	ParentName      sql.NullString      `db:"parent_name"`
	ParentPhone     sql.NullString      `db:"parent_phone"`
	DateOfBirth     sql.NullTime        `db:"date_of_birth"`
	PaymentDay      sql.NullInt32       `db:"payment_day"`
	MonthlyFee      decimal.NullDecimal `db:"monthly_fee"`
	LastPaymentDate sql.NullTime        `db:"last_payment_date"`
	NextDueDate     sql.NullTime        `db:"next_due_date"`
}

type paymentRow struct {
	StudentID uuid.UUID `db:"student_id"`
	PaidOn    time.Time `db:"paid_on"`
}

type lessonRow struct {
	ID        uuid.UUID `db:"id"`
	Day       string    `db:"day"`
	StudentID uuid.UUID `db:"student_id"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Status    string    `db:"status"`
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		WorkingHours: domain.DefaultWorkingHours(),
		Schedule:     make(map[domain.Weekday][]*domain.Lesson),
	}
	for _, day := range domain.Weekdays {
		snap.Schedule[day] = nil
	}

	var hours workingHoursRow
	err := r.db.GetContext(ctx, &hours, `SELECT start_time, end_time FROM working_hours`)
	switch {
	case err == nil:
		start, perr := domain.ParseTimeOfDay(hours.StartTime)
		if perr != nil {
			return nil, perr
		}
		end, perr := domain.ParseTimeOfDay(hours.EndTime)
		if perr != nil {
			return nil, perr
		}
		snap.WorkingHours = domain.WorkingHours{Start: start, End: end}
	case err == sql.ErrNoRows:
		// Fresh store, keep the defaults.
	default:
		return nil, err
	}

	var students []studentRow
	err = r.db.SelectContext(ctx, &students, `
		SELECT id, name, parent_name, parent_phone, date_of_birth,
		       payment_day, monthly_fee, last_payment_date, next_due_date
		FROM students
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}

	var payments []paymentRow
	err = r.db.SelectContext(ctx, &payments, `
		SELECT student_id, paid_on FROM payments ORDER BY paid_on DESC
	`)
	if err != nil {
		return nil, err
	}

	history := make(map[uuid.UUID][]time.Time, len(students))
	for _, p := range payments {
		history[p.StudentID] = append(history[p.StudentID], domain.DateOnly(p.PaidOn))
	}

	for _, row := range students {
		snap.Students = append(snap.Students, upgradeStudent(row, history[row.ID]))
	}

	var lessons []lessonRow
	err = r.db.SelectContext(ctx, &lessons, `
		SELECT id, day, student_id, start_time, end_time, status
		FROM lessons
		ORDER BY day, start_time
	`)
	if err != nil {
		return nil, err
	}

	for _, row := range lessons {
		day, perr := domain.ParseWeekday(row.Day)
		if perr != nil {
			return nil, perr
		}
		if !domain.ValidLessonStatus(row.Status) {
			return nil, fmt.Errorf("lesson %s has unknown status %q", row.ID, row.Status)
		}
		start, perr := domain.ParseTimeOfDay(row.StartTime)
		if perr != nil {
			return nil, perr
		}
		end, perr := domain.ParseTimeOfDay(row.EndTime)
		if perr != nil {
			return nil, perr
		}
		snap.Schedule[day] = append(snap.Schedule[day], &domain.Lesson{
			ID:        row.ID,
			Day:       day,
			StudentID: row.StudentID,
			Start:     start,
			End:       end,
			Status:    row.Status,
		})
	}

	return snap, nil
}

// upgradeStudent turns a stored row into the canonical Student shape.
// Rows written before billing existed carry NULL billing columns and
// default to anchor day 1 with an unset cycle.
func upgradeStudent(row studentRow, history []time.Time) *domain.Student {
	s := &domain.Student{
		ID:             row.ID,
		Name:           row.Name,
		ParentName:     row.ParentName.String,
		ParentPhone:    row.ParentPhone.String,
		PaymentDay:     1,
		MonthlyFee:     decimal.Zero,
		PaymentHistory: history,
	}

	if row.DateOfBirth.Valid {
		dob := domain.DateOnly(row.DateOfBirth.Time)
		s.DateOfBirth = &dob
	}
	if row.PaymentDay.Valid && row.PaymentDay.Int32 >= 1 && row.PaymentDay.Int32 <= 31 {
		s.PaymentDay = int(row.PaymentDay.Int32)
	}
	if row.MonthlyFee.Valid {
		s.MonthlyFee = row.MonthlyFee.Decimal
	}

	if len(history) == 0 {
		return s
	}

	last := domain.DateOnly(row.LastPaymentDate.Time)
	if !row.LastPaymentDate.Valid {
		last = history[0]
	}
	s.LastPaymentDate = &last

	next := domain.DateOnly(row.NextDueDate.Time)
	if !row.NextDueDate.Valid {
		next = billing.NextDueDate(last, s.PaymentDay)
	}
	s.NextDueDate = &next

	return s
}

func (r *snapshotRepository) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM payments`,
		`DELETE FROM lessons`,
		`DELETE FROM students`,
		`DELETE FROM working_hours`,
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO working_hours (start_time, end_time) VALUES ($1, $2)`,
		snap.WorkingHours.Start.String(),
		snap.WorkingHours.End.String(),
	)
	if err != nil {
		return err
	}

	for _, s := range snap.Students {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO students (id, name, parent_name, parent_phone, date_of_birth,
			                      payment_day, monthly_fee, last_payment_date, next_due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			s.ID, s.Name, s.ParentName, s.ParentPhone, nullDate(s.DateOfBirth),
			s.PaymentDay, s.MonthlyFee, nullDate(s.LastPaymentDate), nullDate(s.NextDueDate),
		)
		if err != nil {
			return err
		}

		for _, paidOn := range s.PaymentHistory {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO payments (student_id, paid_on) VALUES ($1, $2)`,
				s.ID, paidOn,
			)
			if err != nil {
				return err
			}
		}
	}

	for _, day := range domain.Weekdays {
		for _, l := range snap.Schedule[day] {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO lessons (id, day, student_id, start_time, end_time, status)
				VALUES ($1, $2, $3, $4, $5, $6)
			`,
				l.ID, string(l.Day), l.StudentID, l.Start.String(), l.End.String(), l.Status,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
