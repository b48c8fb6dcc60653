package exam

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu          sync.RWMutex
	exams       map[string]Exam
	submissions map[string]Submission
}

// NewInMemoryStore is a Store backed by maps, for handler tests and local
// experiments. It enforces the same invariants as the SQL store.
func NewInMemoryStore() Store {
	return &memoryStore{
		exams:       map[string]Exam{},
		submissions: map[string]Submission{},
	}
}

func (m *memoryStore) CreateExam(_ context.Context, e Exam) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applyCreateDefaults(&e, uuid.NewString(), time.Now())
	m.exams[e.ID] = e
	return e, nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExams(_ context.Context, opts ListOpts) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Exam{}
	for _, e := range m.exams {
		if opts.TeacherID != "" && e.TeacherID != opts.TeacherID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.UnixNano() > out[j].CreatedAt.UnixNano()
	})
	return out, nil
}

func (m *memoryStore) CreateSubmission(_ context.Context, sub Submission) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[sub.ExamID]; !ok {
		return Submission{}, ErrExamNotFound
	}
	for _, existing := range m.submissions {
		if existing.ExamID == sub.ExamID && existing.RegNumber == sub.RegNumber {
			return Submission{}, ErrAlreadySubmitted
		}
	}
	sub.ID = uuid.NewString()
	sub.Score = 0
	sub.Marks = nil
	sub.IsGraded = false
	sub.SubmittedAt = NewTimestamp(time.Now())
	if sub.Answers == nil {
		sub.Answers = map[string]string{}
	}
	m.submissions[sub.ID] = sub
	return sub, nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}

func (m *memoryStore) FindSubmission(_ context.Context, examID, regNumber string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.submissions {
		if sub.ExamID == examID && sub.RegNumber == regNumber {
			return sub, nil
		}
	}
	return Submission{}, ErrSubmissionNotFound
}

func (m *memoryStore) ListSubmissions(_ context.Context, examID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Submission{}
	for _, sub := range m.submissions {
		if sub.ExamID == examID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.UnixNano() < out[j].SubmittedAt.UnixNano()
	})
	return out, nil
}

func (m *memoryStore) SaveGrade(_ context.Context, submissionID string, marks map[string]int, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[submissionID]
	if !ok {
		return ErrSubmissionNotFound
	}
	if marks == nil {
		marks = map[string]int{}
	}
	sub.Marks = marks
	sub.Score = score
	sub.IsGraded = true
	m.submissions[submissionID] = sub
	return nil
}
