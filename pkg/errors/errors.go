package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrOutOfHours          = errors.New("lesson is outside working hours")
	ErrTimeConflict        = errors.New("lesson overlaps an existing lesson")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrDuplicateStudent    = errors.New("student already exists")
	ErrInvalidWorkingHours = errors.New("working hours start must be before end")
	ErrInvalidPaymentDay   = errors.New("payment day must be between 1 and 31")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeOutOfHours          = "OUT_OF_HOURS"
	ErrCodeTimeConflict        = "TIME_CONFLICT"
	ErrCodeLessonNotFound      = "LESSON_NOT_FOUND"
	ErrCodeStudentNotFound     = "STUDENT_NOT_FOUND"
	ErrCodeDuplicateStudent    = "STUDENT_ALREADY_EXISTS"
	ErrCodeInvalidWorkingHours = "INVALID_WORKING_HOURS"
	ErrCodeInvalidPaymentDay   = "INVALID_PAYMENT_DAY"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapOutOfHours(day, requested, workingHours string) *BusinessError {
	return NewBusinessError(
		ErrCodeOutOfHours,
		fmt.Sprintf("Lesson %s on %s falls outside working hours %s", requested, day, workingHours),
		ErrOutOfHours,
	)
}

func WrapTimeConflict(day, requested, existing string) *BusinessError {
	return NewBusinessError(
		ErrCodeTimeConflict,
		fmt.Sprintf("Lesson %s on %s overlaps existing lesson %s", requested, day, existing),
		ErrTimeConflict,
	)
}

func WrapLessonNotFound(lessonID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLessonNotFound,
		fmt.Sprintf("Lesson with ID %s not found", lessonID),
		ErrLessonNotFound,
	)
}

func WrapStudentNotFound(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeStudentNotFound,
		fmt.Sprintf("Student with ID %s not found", studentID),
		ErrStudentNotFound,
	)
}

func WrapDuplicateStudent(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateStudent,
		fmt.Sprintf("Student with ID %s already exists", studentID),
		ErrDuplicateStudent,
	)
}

func WrapInvalidWorkingHours(start, end string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidWorkingHours,
		fmt.Sprintf("Working hours %s-%s are invalid, start must be before end", start, end),
		ErrInvalidWorkingHours,
	)
}

func WrapInvalidPaymentDay(day int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentDay,
		fmt.Sprintf("Payment day %d is outside the valid range 1-31", day),
		ErrInvalidPaymentDay,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"Database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
