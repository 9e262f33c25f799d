package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oztunc/lesson-planner/internal/billing"
	"github.com/oztunc/lesson-planner/internal/config"
	"github.com/oztunc/lesson-planner/internal/domain"
	"github.com/oztunc/lesson-planner/internal/repository"
	"github.com/oztunc/lesson-planner/internal/schedule"
	customError "github.com/oztunc/lesson-planner/pkg/errors"
)

const occupancyCacheKey = "planner:occupancy"

// ScanKey is where the delinquency scan leaves its latest summary.
const ScanKey = "billing:last_scan"

// PlannerService owns the weekly schedule and the student billing
// state. All mutations run under one mutex and are persisted as an
// atomic snapshot; a failed save rolls the in-memory state back so
// callers never observe a half-applied change.
type PlannerService struct {
	mu       sync.Mutex
	schedule *schedule.Engine
	students map[uuid.UUID]*domain.Student

	repo   repository.SnapshotRepository
	cache  *redis.Client
	config *config.Config

	now func() time.Time
}

// StudentParams carries the mutable student fields through create and
// update.
type StudentParams struct {
	Name        string
	ParentName  string
	ParentPhone string
	DateOfBirth *time.Time
	PaymentDay  int
	MonthlyFee  decimal.Decimal
}

// ScanSummary is the result of a delinquency sweep.
type ScanSummary struct {
	ScannedAt  time.Time           `json:"scanned_at"`
	Students   int                 `json:"students"`
	Delinquent []DelinquentStudent `json:"delinquent"`
}

type DelinquentStudent struct {
	StudentID   uuid.UUID `json:"student_id"`
	Name        string    `json:"name"`
	DaysOverdue int       `json:"days_overdue"`
}

func NewPlannerService(
	repo repository.SnapshotRepository,
	cache *redis.Client,
	cfg *config.Config,
) *PlannerService {
	eng, _ := schedule.NewEngine(cfg.GetWorkingHours())
	return &PlannerService{
		schedule: eng,
		students: make(map[uuid.UUID]*domain.Student),
		repo:     repo,
		cache:    cache,
		config:   cfg,
		now:      time.Now,
	}
}

// Load replaces the in-memory state with the stored snapshot.
func (s *PlannerService) Load(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
	return nil
}

// PlaceLesson books a lesson and persists the new schedule.
func (s *PlannerService) PlaceLesson(ctx context.Context, day domain.Weekday, start domain.TimeOfDay, durationMinutes int, studentID uuid.UUID) (*domain.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()

	lesson, err := s.schedule.PlaceLesson(day, start, durationMinutes, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	s.invalidateOccupancy(ctx)
	return lesson, nil
}

// SetLessonStatus transitions a lesson's status and persists it.
func (s *PlannerService) SetLessonStatus(ctx context.Context, lessonID uuid.UUID, status string) (*domain.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()

	lesson, err := s.schedule.SetStatus(lessonID, status)
	if err != nil {
		return nil, err
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	return lesson, nil
}

// WeekSchedule returns the whole week, each day sorted by start time.
func (s *PlannerService) WeekSchedule(ctx context.Context) domain.WeekScheduleResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.WeekScheduleResponse{
		WorkingHours: s.schedule.WorkingHours(),
		Schedule:     s.schedule.Week(),
	}
}

// Occupancy returns the weekly occupancy stats, served from the cache
// when available. Cache trouble degrades to a recompute, never to an
// error.
func (s *PlannerService) Occupancy(ctx context.Context) domain.OccupancyStats {
	if stats, ok := s.cachedOccupancy(ctx); ok {
		return stats
	}

	s.mu.Lock()
	stats := s.schedule.Occupancy()
	s.mu.Unlock()

	s.storeOccupancy(ctx, stats)
	return stats
}

// WorkingHours returns the current working window.
func (s *PlannerService) WorkingHours(ctx context.Context) domain.WorkingHours {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.WorkingHours()
}

// SetWorkingHours replaces the working window and persists it. The
// change does not re-validate existing lessons.
func (s *PlannerService) SetWorkingHours(ctx context.Context, hours domain.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()

	if err := s.schedule.SetWorkingHours(hours); err != nil {
		return err
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return err
	}

	s.invalidateOccupancy(ctx)
	return nil
}

// CreateStudent registers a new billing subject.
func (s *PlannerService) CreateStudent(ctx context.Context, params StudentParams) (*domain.Student, error) {
	if params.PaymentDay < 1 || params.PaymentDay > 31 {
		return nil, customError.WrapInvalidPaymentDay(params.PaymentDay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()

	student := &domain.Student{
		ID:          uuid.New(),
		Name:        params.Name,
		ParentName:  params.ParentName,
		ParentPhone: params.ParentPhone,
		DateOfBirth: params.DateOfBirth,
		PaymentDay:  params.PaymentDay,
		MonthlyFee:  params.MonthlyFee,
	}
	s.students[student.ID] = student

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	return student.Clone(), nil
}

// UpdateStudent rewrites a student's contact and billing settings. A
// changed payment day recomputes the next due date from the existing
// history.
func (s *PlannerService) UpdateStudent(ctx context.Context, studentID uuid.UUID, params StudentParams) (*domain.Student, error) {
	if params.PaymentDay < 1 || params.PaymentDay > 31 {
		return nil, customError.WrapInvalidPaymentDay(params.PaymentDay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return nil, customError.WrapStudentNotFound(studentID.String())
	}

	before := s.snapshotLocked()

	student.Name = params.Name
	student.ParentName = params.ParentName
	student.ParentPhone = params.ParentPhone
	student.DateOfBirth = params.DateOfBirth
	student.MonthlyFee = params.MonthlyFee
	if student.PaymentDay != params.PaymentDay {
		student.PaymentDay = params.PaymentDay
		billing.Recompute(student)
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	return student.Clone(), nil
}

// ListStudents returns all students sorted by name.
func (s *PlannerService) ListStudents(ctx context.Context) []*domain.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentsLocked()
}

// StudentBilling reports a student's due status and payment history.
func (s *PlannerService) StudentBilling(ctx context.Context, studentID uuid.UUID) (*domain.StudentBillingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return nil, customError.WrapStudentNotFound(studentID.String())
	}

	history := make([]string, len(student.PaymentHistory))
	for i, d := range student.PaymentHistory {
		history[i] = d.Format(domain.DateLayout)
	}

	return &domain.StudentBillingResponse{
		StudentID:       student.ID,
		Name:            student.Name,
		Status:          billing.Evaluate(student, s.now()),
		LastPaymentDate: student.LastPaymentDate,
		PaymentHistory:  history,
	}, nil
}

// RecordPayment adds a payment date to the student's history.
// Recording an already-known date changes nothing and skips the save.
func (s *PlannerService) RecordPayment(ctx context.Context, studentID uuid.UUID, date time.Time) (*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return nil, customError.WrapStudentNotFound(studentID.String())
	}

	before := s.snapshotLocked()

	if !billing.RecordPayment(student, date) {
		return student.Clone(), nil
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	return student.Clone(), nil
}

// DeletePayment removes a payment date; the billing cycle is
// recomputed from whatever history remains.
func (s *PlannerService) DeletePayment(ctx context.Context, studentID uuid.UUID, date time.Time) (*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return nil, customError.WrapStudentNotFound(studentID.String())
	}

	before := s.snapshotLocked()

	if !billing.DeletePayment(student, date) {
		return student.Clone(), nil
	}

	if err := s.persistLocked(ctx); err != nil {
		s.restoreLocked(before)
		return nil, err
	}

	return student.Clone(), nil
}

// NoShowReport folds the week into per-student make-up tallies.
// Students without a missed lesson are left out, matching the summary
// the studio actually reads.
func (s *PlannerService) NoShowReport(ctx context.Context) []domain.NoShowReportEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	tally := s.schedule.NoShowTally()

	entries := make([]domain.NoShowReportEntry, 0, len(tally))
	for studentID, counts := range tally {
		if counts.Total() == 0 {
			continue
		}
		name := studentID.String()
		if student, ok := s.students[studentID]; ok {
			name = student.Name
		}
		entries = append(entries, domain.NoShowReportEntry{
			StudentID:    studentID,
			Name:         name,
			StudentFault: counts.StudentFault,
			TeacherFault: counts.TeacherFault,
			Total:        counts.Total(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// RevenueReport sums expected monthly tuition against the fees of
// currently delinquent students.
func (s *PlannerService) RevenueReport(ctx context.Context) domain.RevenueReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := domain.RevenueReport{
		ExpectedMonthly: decimal.Zero,
		OverdueAmount:   decimal.Zero,
	}

	today := s.now()
	for _, student := range s.students {
		report.ExpectedMonthly = report.ExpectedMonthly.Add(student.MonthlyFee)
		if billing.Evaluate(student, today).State == domain.DueStateDelinquent {
			report.OverdueAmount = report.OverdueAmount.Add(student.MonthlyFee)
			report.DelinquentCount++
		}
	}

	return report
}

// DelinquencyScan sweeps all students, logs the delinquent ones and
// leaves a summary in the cache for operators to inspect.
func (s *PlannerService) DelinquencyScan(ctx context.Context) (*ScanSummary, error) {
	s.mu.Lock()

	today := s.now()
	summary := &ScanSummary{
		ScannedAt:  domain.DateOnly(today),
		Students:   len(s.students),
		Delinquent: []DelinquentStudent{},
	}

	for _, student := range s.students {
		status := billing.Evaluate(student, today)
		if status.State != domain.DueStateDelinquent {
			continue
		}
		summary.Delinquent = append(summary.Delinquent, DelinquentStudent{
			StudentID:   student.ID,
			Name:        student.Name,
			DaysOverdue: status.DaysOverdue,
		})
		logrus.WithFields(logrus.Fields{
			"student_id":   student.ID,
			"student":      student.Name,
			"days_overdue": status.DaysOverdue,
			"next_due":     domain.FormatDate(status.NextDueDate),
		}).Warn("tuition payment overdue")
	}
	s.mu.Unlock()

	sort.Slice(summary.Delinquent, func(i, j int) bool {
		return summary.Delinquent[i].Name < summary.Delinquent[j].Name
	})

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, ScanKey, payload, 0).Err(); err != nil {
				logrus.WithError(err).Warn("storing delinquency scan summary")
			}
		}
	}

	return summary, nil
}

// WeeklyDigest logs the occupancy and make-up situation at the start
// of the teaching week.
func (s *PlannerService) WeeklyDigest(ctx context.Context) {
	stats := s.Occupancy(ctx)
	report := s.NoShowReport(ctx)

	makeups := 0
	for _, entry := range report {
		makeups += entry.Total
	}

	logrus.WithFields(logrus.Fields{
		"occupancy_rate": stats.OccupancyRate,
		"filled_minutes": stats.FilledMinutes,
		"empty_minutes":  stats.EmptyMinutes,
		"makeup_lessons": makeups,
	}).Info("weekly schedule digest")
}

// snapshotLocked deep-copies the current state. Callers hold the lock.
func (s *PlannerService) snapshotLocked() *domain.Snapshot {
	return &domain.Snapshot{
		WorkingHours: s.schedule.WorkingHours(),
		Schedule:     s.schedule.Week(),
		Students:     s.studentsLocked(),
	}
}

func (s *PlannerService) restoreLocked(snap *domain.Snapshot) {
	s.schedule = schedule.FromSnapshot(snap.WorkingHours, snap.Schedule)
	s.students = make(map[uuid.UUID]*domain.Student, len(snap.Students))
	for _, student := range snap.Students {
		s.students[student.ID] = student.Clone()
	}
}

func (s *PlannerService) persistLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *PlannerService) studentsLocked() []*domain.Student {
	students := make([]*domain.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, student.Clone())
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name == students[j].Name {
			return students[i].ID.String() < students[j].ID.String()
		}
		return students[i].Name < students[j].Name
	})
	return students
}

func (s *PlannerService) cachedOccupancy(ctx context.Context) (domain.OccupancyStats, bool) {
	if s.cache == nil {
		return domain.OccupancyStats{}, false
	}

	payload, err := s.cache.Get(ctx, occupancyCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Debug("occupancy cache read")
		}
		return domain.OccupancyStats{}, false
	}

	var stats domain.OccupancyStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return domain.OccupancyStats{}, false
	}
	return stats, true
}

func (s *PlannerService) storeOccupancy(ctx context.Context, stats domain.OccupancyStats) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, occupancyCacheKey, payload, s.config.GetCacheTTL()).Err(); err != nil {
		logrus.WithError(err).Debug("occupancy cache write")
	}
}

func (s *PlannerService) invalidateOccupancy(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, occupancyCacheKey).Err(); err != nil {
		logrus.WithError(err).Debug("occupancy cache invalidation")
	}
}
