package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/oztunc/lesson-planner/internal/domain"
	"github.com/oztunc/lesson-planner/internal/service"
	customError "github.com/oztunc/lesson-planner/pkg/errors"
	"github.com/oztunc/lesson-planner/pkg/response"
)

type PlannerHandler struct {
	service   *service.PlannerService
	validator *validator.Validate
}

func NewPlannerHandler(svc *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{
		service:   svc,
		validator: validator.New(),
	}
}

// PlaceLesson books a lesson slot
// POST /api/v1/lessons
func (h *PlannerHandler) PlaceLesson(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	day, err := domain.ParseWeekday(req.Day)
	if err != nil {
		response.BadRequest(w, "invalid day", err)
		return
	}
	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		response.BadRequest(w, "invalid start time", err)
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.BadRequest(w, "invalid student id", err)
		return
	}

	lesson, err := h.service.PlaceLesson(r.Context(), day, start, req.DurationMinutes, studentID)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Created(w, lesson)
}

// SetLessonStatus transitions a lesson's status
// PUT /api/v1/lessons/{lessonID}/status
func (h *PlannerHandler) SetLessonStatus(w http.ResponseWriter, r *http.Request) {
	lessonID, err := uuid.Parse(mux.Vars(r)["lessonID"])
	if err != nil {
		response.BadRequest(w, "invalid lesson id", err)
		return
	}

	var req domain.SetLessonStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	lesson, err := h.service.SetLessonStatus(r.Context(), lessonID, req.Status)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, lesson)
}

// GetSchedule returns the full week
// GET /api/v1/schedule
func (h *PlannerHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.WeekSchedule(r.Context()))
}

// GetOccupancy returns weekly occupancy statistics
// GET /api/v1/schedule/occupancy
func (h *PlannerHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Occupancy(r.Context()))
}

// GetWorkingHours returns the current working window
// GET /api/v1/working-hours
func (h *PlannerHandler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.WorkingHours(r.Context()))
}

// SetWorkingHours replaces the working window
// PUT /api/v1/working-hours
func (h *PlannerHandler) SetWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		response.BadRequest(w, "invalid start time", err)
		return
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		response.BadRequest(w, "invalid end time", err)
		return
	}

	hours := domain.WorkingHours{Start: start, End: end}
	if err := h.service.SetWorkingHours(r.Context(), hours); err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, hours)
}

// CreateStudent registers a new student
// POST /api/v1/students
func (h *PlannerHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	params, ok := h.studentParams(w, r)
	if !ok {
		return
	}

	student, err := h.service.CreateStudent(r.Context(), params)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Created(w, student)
}

// UpdateStudent rewrites a student's contact and billing settings
// PUT /api/v1/students/{studentID}
func (h *PlannerHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(mux.Vars(r)["studentID"])
	if err != nil {
		response.BadRequest(w, "invalid student id", err)
		return
	}

	params, ok := h.studentParams(w, r)
	if !ok {
		return
	}

	student, err := h.service.UpdateStudent(r.Context(), studentID, params)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, student)
}

// ListStudents returns all students sorted by name
// GET /api/v1/students
func (h *PlannerHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ListStudents(r.Context()))
}

// GetStudentBilling reports due status and payment history
// GET /api/v1/students/{studentID}/billing
func (h *PlannerHandler) GetStudentBilling(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(mux.Vars(r)["studentID"])
	if err != nil {
		response.BadRequest(w, "invalid student id", err)
		return
	}

	billing, err := h.service.StudentBilling(r.Context(), studentID)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, billing)
}

// RecordPayment records a tuition payment
// POST /api/v1/students/{studentID}/payments
func (h *PlannerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(mux.Vars(r)["studentID"])
	if err != nil {
		response.BadRequest(w, "invalid student id", err)
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(w, "invalid date", err)
		return
	}

	student, err := h.service.RecordPayment(r.Context(), studentID, date)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, student)
}

// DeletePayment removes a recorded payment
// DELETE /api/v1/students/{studentID}/payments/{date}
func (h *PlannerHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	studentID, err := uuid.Parse(vars["studentID"])
	if err != nil {
		response.BadRequest(w, "invalid student id", err)
		return
	}
	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		response.BadRequest(w, "invalid date", err)
		return
	}

	student, err := h.service.DeletePayment(r.Context(), studentID, date)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	response.Success(w, student)
}

// NoShowReport returns per-student make-up tallies
// GET /api/v1/reports/no-shows
func (h *PlannerHandler) NoShowReport(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.NoShowReport(r.Context()))
}

// RevenueReport returns expected versus overdue monthly tuition
// GET /api/v1/reports/revenue
func (h *PlannerHandler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.RevenueReport(r.Context()))
}

func (h *PlannerHandler) studentParams(w http.ResponseWriter, r *http.Request) (service.StudentParams, bool) {
	var req domain.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return service.StudentParams{}, false
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return service.StudentParams{}, false
	}

	params := service.StudentParams{
		Name:        req.Name,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
		PaymentDay:  req.PaymentDay,
		MonthlyFee:  req.MonthlyFee,
	}

	if req.DateOfBirth != "" {
		dob, err := domain.ParseDate(req.DateOfBirth)
		if err != nil {
			response.BadRequest(w, "invalid date of birth", err)
			return service.StudentParams{}, false
		}
		params.DateOfBirth = &dob
	}

	return params, true
}

// respondBusinessError maps business error codes onto HTTP statuses.
func respondBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeTimeConflict:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeLessonNotFound, customError.ErrCodeStudentNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeOutOfHours,
		customError.ErrCodeInvalidWorkingHours,
		customError.ErrCodeInvalidPaymentDay,
		customError.ErrCodeDuplicateStudent:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
