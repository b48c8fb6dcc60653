package exam

import (
	"context"
	"errors"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrAlreadySubmitted is returned when a (examID, regNumber) pair already
	// has a submission. The stores enforce this atomically, not with a
	// read-then-write check.
	ErrAlreadySubmitted = errors.New("already submitted")
)

type ListOpts struct {
	TeacherID string // equality filter; empty means all teachers
}

type Store interface {
	CreateExam(ctx context.Context, e Exam) (Exam, error)
	GetExam(ctx context.Context, id string) (Exam, error)
	// ListExams returns exams ordered by creation time descending.
	ListExams(ctx context.Context, opts ListOpts) ([]Exam, error)

	CreateSubmission(ctx context.Context, s Submission) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	// FindSubmission looks up the one submission for (examID, regNumber).
	FindSubmission(ctx context.Context, examID, regNumber string) (Submission, error)
	ListSubmissions(ctx context.Context, examID string) ([]Submission, error)

	// SaveGrade records per-question marks and the summed score, and flips
	// isGraded. Re-applying the same grade is idempotent.
	SaveGrade(ctx context.Context, submissionID string, marks map[string]int, score int) error
}
