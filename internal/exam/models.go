package exam

import (
	"strings"
	"time"
)

const (
	TypeMCQ  = "MCQ"
	TypeText = "Text"
)

// Timestamp is the Firestore-style wire shape the frontend's history and
// result views already consume for date formatting.
type Timestamp struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, ts.Nanoseconds)
}

// UnixNano is the stored representation; it keeps creation-time ordering
// stable even for documents created within the same second.
func (ts Timestamp) UnixNano() int64 {
	return ts.Seconds*int64(time.Second) + ts.Nanoseconds
}

func timestampFromUnixNano(n int64) Timestamp {
	return Timestamp{Seconds: n / int64(time.Second), Nanoseconds: n % int64(time.Second)}
}

type Question struct {
	Text     string `json:"text"`
	Type     string `json:"type"` // MCQ | Text
	Options  string `json:"options,omitempty"`
	MaxMarks int    `json:"maxMarks"`
}

// Choices splits the comma-separated options string the same way the
// exam-taking view does. Only meaningful for MCQ questions.
func (q Question) Choices() []string {
	if q.Options == "" {
		return nil
	}
	parts := strings.Split(q.Options, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

type Exam struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Subject    string     `json:"subject"`
	TeacherID  string     `json:"teacherId"`
	Questions  []Question `json:"questions"`
	TotalMarks int        `json:"totalMarks"`
	CreatedAt  Timestamp  `json:"createdAt"`
}

type Submission struct {
	ID          string            `json:"id"`
	ExamID      string            `json:"examId"`
	StudentName string            `json:"studentName"`
	RegNumber   string            `json:"regNumber"`
	Answers     map[string]string `json:"answers"`
	Score       int               `json:"score"`
	Marks       map[string]int    `json:"marks,omitempty"`
	IsGraded    bool              `json:"isGraded"`
	SubmittedAt Timestamp         `json:"submittedAt"`
}

// TotalMarks sums the per-question maxima; a zero MaxMarks counts as 0.
func TotalMarks(qs []Question) int {
	sum := 0
	for _, q := range qs {
		sum += q.MaxMarks
	}
	return sum
}

// SumMarks is the graded score: the arithmetic sum of awarded marks.
func SumMarks(marks map[string]int) int {
	sum := 0
	for _, m := range marks {
		sum += m
	}
	return sum
}

// applyCreateDefaults fills the fields the store owns on exam creation.
func applyCreateDefaults(e *Exam, id string, now time.Time) {
	e.ID = id
	if e.Subject == "" {
		e.Subject = "General"
	}
	if e.TeacherID == "" {
		e.TeacherID = "Anonymous"
	}
	e.TotalMarks = TotalMarks(e.Questions)
	e.CreatedAt = NewTimestamp(now)
}
